package admin

import (
	handlershared "github.com/apparel-shop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func pathParams(c *gin.Context, names ...string) ([]string, bool) {
	values := make([]string, 0, len(names))
	for _, name := range names {
		value, ok := handlershared.RequiredParam(c, name)
		if !ok {
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}
