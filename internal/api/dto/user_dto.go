package dto

// UserDTO 用户，不包含验证码本身
type UserDTO struct {
	ID             string             `json:"id"`
	WhopID         string             `json:"whopId"`
	Username       string             `json:"username"`
	Avatar         string             `json:"avatar"`
	LinkedAccounts []LinkedAccountDTO `json:"linkedAccounts" copier:"-"`
	Metrics        MetricsDTO         `json:"metrics" copier:"-"`
	Achievements   []AchievementDTO   `json:"achievements" copier:"-"`
	OTPExpires     *int64             `json:"otpExpires,omitempty"`
}

type LinkedAccountDTO struct {
	Platform       string `json:"platform"`
	Handle         string `json:"handle"`
	PlatformUserID string `json:"id"`
}

type MetricsDTO struct {
	Views    int64   `json:"views"`
	Shares   int64   `json:"shares"`
	Earnings float64 `json:"earnings"`
}

type AchievementDTO struct {
	AchievementID string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Date          int64  `json:"date"`
}

// RegisterDTO 注册/重新获取验证码
type RegisterDTO struct {
	UserID   string `json:"userId" validate:"required,max=64"`
	Username string `json:"username" validate:"max=100"`
	Avatar   string `json:"avatar" validate:"max=512"`
}

type RegisterResponse struct {
	OTP string `json:"otp"`
}
