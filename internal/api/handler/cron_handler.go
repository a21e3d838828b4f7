package handler

import (
	"Clipper/internal/pkg/logger"
	"Clipper/internal/pkg/response"
	"Clipper/internal/service"
	"context"

	"github.com/gin-gonic/gin"
)

type CronHandler struct {
	refreshSvc service.RefreshService
}

func NewCronHandler(refreshSvc service.RefreshService) *CronHandler {
	return &CronHandler{refreshSvc: refreshSvc}
}

// UpdateMetrics 客户端断开不中断刷新
func (s *CronHandler) UpdateMetrics(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if logger.TraceID(ctx) == "" {
		ctx = logger.NewJobContext(ctx, "metrics-refresh-http")
	}

	result, err := s.refreshSvc.RefreshAll(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
