package response

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/util"
	"Clipper/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Success 直接返回数据
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// OK 返回 {"success": true}
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// BindError 请求体绑定失败一律视为参数错误
func BindError(c *gin.Context, err error) {
	log.InfoContext(c.Request.Context(), "bind request failed", "err", err)
	Fail(c, http.StatusBadRequest, "invalid json body")
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var fieldErr *util.ValidationError
	if errors.As(err, &fieldErr) {
		Fail(c, http.StatusBadRequest, fieldErr.Error())
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, http.StatusBadRequest, service.ErrParamInvalid.Error())
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	var syntaxError *json.SyntaxError
	if errors.As(err, &unmarshalTypeError) || errors.As(err, &syntaxError) {
		Fail(c, http.StatusBadRequest, "invalid json body")
		return
	}

	status, message, ok := service.StatusOf(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "Error", "err", err)
		message = service.UnExpectedError.Error()
	}
	Fail(c, status, message)
}
