package handler

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/response"
	"Clipper/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "x-hub-signature-256"

type WebhookHandler struct {
	webhookSvc service.WebhookService
}

func NewWebhookHandler(webhookSvc service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookSvc: webhookSvc}
}

// Verify 订阅校验，成功时原样返回 hub.challenge 纯文本
func (s *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := s.webhookSvc.VerifySubscription(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive 签名基于原始请求体计算
func (s *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BindError(c, err)
		return
	}

	outcome, err := s.webhookSvc.HandleDelivery(c.Request.Context(), body, c.GetHeader(signatureHeader))
	if err != nil {
		response.Error(c, err)
		return
	}
	if outcome == service.DeliveryHandled {
		response.OK(c)
		return
	}
	response.Success(c, dto.ReceivedResponse{Received: true})
}
