package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const SignaturePrefix = "sha256="

// SignBody 计算 x-hub-signature-256 头的值
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 常量时间比较签名
func VerifySignature(secret string, body []byte, header string) bool {
	if !strings.HasPrefix(header, SignaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(header, SignaturePrefix))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
