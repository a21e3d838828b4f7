package dto

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse 通用成功响应
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ReceivedResponse webhook 兜底响应
type ReceivedResponse struct {
	Received bool `json:"received"`
}
