package util

import "math"

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}

// RoundHalfUp 四舍五入，.5 向正无穷方向
func RoundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
