// Package scrapertest 提供可注入的假抓取器
package scrapertest

import (
	"Clipper/internal/model"
	"Clipper/internal/pkg/scraper"
	"context"
	"sync"
)

// Fake 按 (platform, handle) 返回预设结果并记录调用次数
type Fake struct {
	mu       sync.Mutex
	profiles map[string]*scraper.SocialMetrics
	errs     map[string]error
	calls    map[string]int
}

func New() *Fake {
	return &Fake{
		profiles: make(map[string]*scraper.SocialMetrics),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func key(platform model.Platform, handle string) string {
	return string(platform) + ":" + handle
}

func (f *Fake) Set(platform model.Platform, handle string, m *scraper.SocialMetrics) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[key(platform, handle)] = m
	delete(f.errs, key(platform, handle))
}

func (f *Fake) Fail(platform model.Platform, handle string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key(platform, handle)] = err
}

func (f *Fake) Calls(platform model.Platform, handle string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key(platform, handle)]
}

func (f *Fake) FetchProfile(_ context.Context, platform model.Platform, handle string) (*scraper.SocialMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(platform, handle)
	f.calls[k]++
	if err, ok := f.errs[k]; ok {
		return nil, err
	}
	if m, ok := f.profiles[k]; ok {
		cp := *m
		cp.RecentPosts = append([]scraper.Post(nil), m.RecentPosts...)
		return &cp, nil
	}
	return nil, scraper.ErrProfileNotFound
}
