package middleware

import (
	"Clipper/internal/pkg/logger"
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxAuditBodyBytes = 16384

// 验证码字段与消息正文只保留末两位
var otpField = regexp.MustCompile(`"(otp|text)"\s*:\s*"([^"\\]*)"`)

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < maxAuditBodyBytes {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func maskBody(body []byte) string {
	if len(body) > maxAuditBodyBytes {
		body = body[:maxAuditBodyBytes]
	}
	return otpField.ReplaceAllStringFunc(string(body), func(m string) string {
		sub := otpField.FindStringSubmatch(m)
		return `"` + sub[1] + `":"` + logger.MaskCode(strings.TrimSpace(sub[2])) + `"`
	})
}

// AuditMiddleware websocket 连接不记录响应体
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			log.InfoContext(ctx, "Recv Upgrade", log.String("path", c.Request.URL.Path))
			c.Next()
			return
		}

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		rawQuery := c.Request.URL.RawQuery
		decodedQuery, err := url.QueryUnescape(rawQuery)
		if err != nil {
			decodedQuery = rawQuery
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", decodedQuery),
			log.String("req_body", maskBody(reqBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
			log.String("res_body", maskBody(w.body.Bytes())),
		)
	}
}
