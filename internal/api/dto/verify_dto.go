package dto

// VerifyBioDTO 简介验证
type VerifyBioDTO struct {
	Platform string `json:"platform" validate:"required"`
	Handle   string `json:"handle" validate:"required,max=100"`
	Code     string `json:"code" validate:"required,max=64"`
	UserID   string `json:"userId" validate:"required,max=64"`
}

type ChallengeResponse struct {
	Code string `json:"code"`
}

// RedeemOTPDTO 一次来自消息平台的验证码兑换
type RedeemOTPDTO struct {
	OTP       string
	AccountID string
	Handle    string
}
