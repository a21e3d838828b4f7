package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// TraceIDKey 定义 Context 中的 Key
const TraceIDKey = "trace_id"

// ContextHandler 包装器，用于从 ctx 中提取 trace_id
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// NewJobContext 为后台任务生成带 trace_id 的 ctx
func NewJobContext(parent context.Context, name string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, TraceIDKey, "job-"+name+"-"+uuid.NewString())
}

// TraceID 读取 ctx 中的 trace_id
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

// MaskCode 验证码只保留末两位
func MaskCode(code string) string {
	if len(code) <= 2 {
		return "**"
	}
	masked := make([]byte, len(code))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(code)-2:], code[len(code)-2:])
	return string(masked)
}
