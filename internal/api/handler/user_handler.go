package handler

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/response"
	"Clipper/internal/pkg/util"
	"Clipper/internal/service"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
	otpSvc  service.OTPService
}

func NewUserHandler(userSvc service.UserService, otpSvc service.OTPService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
		otpSvc:  otpSvc,
	}
}

// Register 宿主身份令牌有效时以令牌中的 whopId 为准
func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BindError(c, err)
		return
	}

	if whopID := c.GetString(consts.WhopIDKey); whopID != "" {
		req.UserID = whopID
		if req.Username == "" {
			req.Username = c.GetString(consts.UsernameKey)
		}
		if req.Avatar == "" {
			req.Avatar = c.GetString(consts.AvatarKey)
		}
	}

	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	otp, err := s.otpSvc.Issue(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.RegisterResponse{OTP: otp})
}

func (s *UserHandler) GetUser(c *gin.Context) {
	whopID := c.Query("whopId")
	if whopID == "" {
		whopID = c.GetString(consts.WhopIDKey)
	}

	user, err := s.userSvc.GetUserByWhopID(c.Request.Context(), whopID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
