package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	TooManyRequests     = 429
	InternalServerError = 500
	NotImplemented      = 501
)

var (
	ErrParamInvalid        = errors.New("invalid parameters")
	ErrMissingUserID       = errors.New("missing userId")
	ErrMissingWhopID       = errors.New("missing whopId")
	ErrMissingFields       = errors.New("missing required fields")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("could not fetch profile")
	ErrCodeNotInBio        = errors.New("verification code not found in bio")
	ErrCodeMalformed       = errors.New("invalid verification code format")
	ErrPlatformInvalid     = errors.New("unknown platform")
	ErrPlatformUnsupported = errors.New("platform not supported yet")
	ErrSignatureInvalid    = errors.New("invalid signature")
	ErrWebhookVerifyFailed = errors.New("webhook verification failed")
	ErrRefreshRunning      = errors.New("metrics refresh already running")
	ErrTooManyRequests     = errors.New("too many requests")
	UnauthorizedError      = errors.New("unauthorized")
	UnExpectedError        = errors.New("internal error, please retry later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrMissingUserID:       BadRequest,
	ErrMissingWhopID:       BadRequest,
	ErrMissingFields:       BadRequest,
	ErrUserNotFound:        NotFound,
	ErrProfileNotFound:     NotFound,
	ErrCodeNotInBio:        BadRequest,
	ErrCodeMalformed:       BadRequest,
	ErrPlatformInvalid:     BadRequest,
	ErrPlatformUnsupported: NotImplemented,
	ErrSignatureInvalid:    Unauthorized,
	ErrWebhookVerifyFailed: Forbidden,
	ErrRefreshRunning:      Conflict,
	ErrTooManyRequests:     TooManyRequests,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}

// StatusOf 查找错误对应的状态码与对外信息，支持被包装的错误
func StatusOf(err error) (int, string, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, err.Error(), true
	}
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return code, known.Error(), true
		}
	}
	return InternalServerError, err.Error(), false
}
