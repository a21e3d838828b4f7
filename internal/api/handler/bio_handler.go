package handler

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/response"
	"Clipper/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type BioHandler struct {
	bioSvc service.BioService
}

func NewBioHandler(bioSvc service.BioService) *BioHandler {
	return &BioHandler{bioSvc: bioSvc}
}

func (s *BioHandler) Challenge(c *gin.Context) {
	code, err := s.bioSvc.IssueChallenge(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ChallengeResponse{Code: code})
}

// Verify 必填字段缺失由 service 统一返回 missing required fields
func (s *BioHandler) Verify(c *gin.Context) {
	var req dto.VerifyBioDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))

	if err := s.bioSvc.Verify(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
