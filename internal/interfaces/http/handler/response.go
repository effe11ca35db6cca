// Package handler 实现 HTTP 端点
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"antelope-chat-api/internal/interfaces/http/dto"
	apperrors "antelope-chat-api/pkg/errors"
	"antelope-chat-api/pkg/logger"
)

// respondOK 成功响应
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.Response[any]{
		Code:    string(apperrors.CodeSuccess),
		Message: "ok",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// respondCreated 创建成功响应
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.Response[any]{
		Code:    string(apperrors.CodeSuccess),
		Message: "ok",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// respondError 错误响应。AppError 按错误码映射状态码，其余一律 500。
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
	}

	c.JSON(appErr.HTTPStatus, dto.Response[any]{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Data:    nonEmptyDetail(appErr),
		TraceID: c.GetString("trace_id"),
	})
}

func nonEmptyDetail(err *apperrors.AppError) any {
	if err.Detail == "" {
		return nil
	}
	return gin.H{"detail": err.Detail}
}

// respondInvalid 参数绑定失败
func respondInvalid(c *gin.Context, err error) {
	respondError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
}

// currentUserID 读取登录用户 ID，匿名时为空串
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
