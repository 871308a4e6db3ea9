// Package response 提供统一的 {status, message, data} 响应信封，
// 并把业务错误类别翻译成 HTTP 状态码
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcastano/cafeteriapos/pkg/apperrors"
	"github.com/dcastano/cafeteriapos/pkg/logger"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Body 响应信封
type Body struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success 写成功响应
func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Body{Status: statusSuccess, Message: message, Data: data})
}

// Error 写错误响应，按错误类别选择状态码。
// 未分类错误不向外泄露内部细节，只返回通用消息。
func Error(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			appErr = apperrors.Wrap(apperrors.KindStorage, "almacenamiento no disponible", err)
		} else {
			appErr = apperrors.Wrap(apperrors.KindUnexpected, "error inesperado", err)
		}
	}

	code := statusCode(appErr.Kind)
	if code >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		// 通用消息，不带内部错误详情
		c.JSON(code, Body{Status: statusError, Message: appErr.Message})
		return
	}

	var data any
	if len(appErr.Fields) > 0 {
		data = appErr.Fields
	}
	c.JSON(code, Body{Status: statusError, Message: appErr.Message, Data: data})
}

func statusCode(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindAuthFailed:
		return http.StatusUnauthorized
	case apperrors.KindUnauthorized:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation, apperrors.KindOutOfStock, apperrors.KindInsufficientStock:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
