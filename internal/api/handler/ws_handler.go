package handler

import (
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/redis"
	"context"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WsHandler 榜单实时推送，订阅 redis 频道转发到客户端
type WsHandler struct {
	rdb *redis.Client
}

func NewWsHandler(rdb *redis.Client) *WsHandler {
	return &WsHandler{rdb: rdb}
}

func (s *WsHandler) Live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WarnContext(c.Request.Context(), "ws upgrade failed", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	pubsub := s.rdb.Subscribe(ctx, consts.MetricsUpdatedTopic)
	defer func() {
		_ = pubsub.Close()
	}()
	if _, err = pubsub.Receive(ctx); err != nil {
		log.ErrorContext(ctx, "ws subscribe failed", "err", err)
		return
	}
	log.InfoContext(ctx, "leaderboard ws connected", "remote", c.ClientIP())

	stopChan := make(chan struct{})

	// 读循环：只处理 pong 与客户端断开
	go func() {
		defer close(stopChan)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	redisCh := pubsub.Channel()
	for {
		select {
		case msg, ok := <-redisCh:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.WarnContext(ctx, "ws push failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stopChan:
			log.InfoContext(ctx, "leaderboard ws disconnected", "remote", c.ClientIP())
			return
		}
	}
}
