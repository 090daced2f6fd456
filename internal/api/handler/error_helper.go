package handler

import (
	"github.com/gin-gonic/gin"

	"workingtime/backend/pkg/apperrors"
	"workingtime/backend/pkg/response"
)

// handleServiceError 按错误分类映射 HTTP 响应。
// 未分类错误（持久层异常等）统一返回 500，细节只进日志不出接口。
func handleServiceError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		response.BadRequest(c, 10001, err.Error())
	case apperrors.KindNotFound:
		response.NotFound(c, 10404, err.Error())
	case apperrors.KindConflict:
		response.Conflict(c, 10409, err.Error())
	default:
		response.InternalError(c)
	}
}
