package handler

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/response"
	"Clipper/internal/pkg/util"
	"Clipper/internal/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardSvc service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardSvc service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardSvc: leaderboardSvc}
}

func (s *LeaderboardHandler) Leaderboard(c *gin.Context) {
	users, err := s.leaderboardSvc.GetLeaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

func (s *LeaderboardHandler) RisingStars(c *gin.Context) {
	stars, err := s.leaderboardSvc.GetRisingStars(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stars)
}

func (s *LeaderboardHandler) TopClips(c *gin.Context) {
	var query dto.TopClipsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}
	clips, err := s.leaderboardSvc.GetTopClips(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, clips)
}
