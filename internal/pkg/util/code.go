package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	OTPLength           = 6
	ChallengeCodeLength = 6
)

var otpSpace = big.NewInt(1_000_000)

// GenerateOTP 生成 000000-999999 均匀分布的六位数字验证码
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateChallengeCode 生成 PREFIX-XXXXXX 形式的简介验证码
func GenerateChallengeCode(prefix string) (string, error) {
	suffix, err := randomString(alphanumeric, ChallengeCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate challenge code: %w", err)
	}
	return prefix + "-" + suffix, nil
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
