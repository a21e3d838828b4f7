package scraper

import (
	"Clipper/internal/api/config"
	"Clipper/internal/model"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const runSyncPath = "/v2/acts/{actor}/run-sync-get-dataset-items"

type instagramInput struct {
	DirectURLs   []string `json:"directUrls"`
	ResultsLimit int      `json:"resultsLimit"`
}

type tiktokInput struct {
	Profiles       []string `json:"profiles"`
	ResultsPerPage int      `json:"resultsPerPage"`
}

// ApifyScraper 通过 Apify actor 的同步运行接口抓取主页
type ApifyScraper struct {
	client *resty.Client
	cfg    config.ApifyConfig
	now    func() time.Time
}

func NewApifyScraper(cfg config.ApifyConfig) *ApifyScraper {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &ApifyScraper{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// FetchProfile 实现 Scraper
func (s *ApifyScraper) FetchProfile(ctx context.Context, platform model.Platform, handle string) (*SocialMetrics, error) {
	now := s.now().UTC()
	switch platform {
	case model.PlatformInstagram:
		items, err := s.run(ctx, s.cfg.InstagramActor, instagramInput{
			DirectURLs:   []string{fmt.Sprintf("https://www.instagram.com/%s/", handle)},
			ResultsLimit: s.cfg.InstagramLimit,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "instagram %s", handle)
		}
		return NormalizeInstagram(items, now)
	case model.PlatformTikTok:
		items, err := s.run(ctx, s.cfg.TikTokActor, tiktokInput{
			Profiles:       []string{handle},
			ResultsPerPage: s.cfg.TikTokPerPage,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "tiktok %s", handle)
		}
		return NormalizeTikTok(items, now)
	default:
		return nil, errors.Wrapf(ErrPlatformUnsupported, "%s", platform)
	}
}

func (s *ApifyScraper) run(ctx context.Context, actor string, input any) ([]Item, error) {
	var items []Item
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("actor", actor).
		SetQueryParam("token", s.cfg.Token).
		SetBody(input).
		SetResult(&items).
		Post(runSyncPath)
	if err != nil {
		log.ErrorContext(ctx, "apify request failed", "actor", actor, "err", err)
		return nil, errors.Wrap(ErrScrapeFailed, err.Error())
	}
	if resp.IsError() {
		log.ErrorContext(ctx, "apify returned error", "actor", actor, "status", resp.StatusCode())
		return nil, errors.Wrapf(ErrScrapeFailed, "status %d", resp.StatusCode())
	}
	log.InfoContext(ctx, "apify run finished", "actor", actor, "items", len(items), "elapsed", time.Since(start).String())
	return items, nil
}
