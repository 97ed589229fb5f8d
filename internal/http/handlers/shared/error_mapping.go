package shared

import (
	"errors"

	"github.com/apparel-shop/internal/http/response"
	"github.com/apparel-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedHandlerError 定义业务错误到接口错误响应的映射关系。
type MappedHandlerError struct {
	Target error
	Code   int
	Msg    string
}

// 具体错误排在其父类错误之前
var serviceErrorRules = []MappedHandlerError{
	{Target: service.ErrStoreNotFound, Code: response.CodeNotFound, Msg: "store not found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Msg: "product not found"},
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound, Msg: "variant not found"},
	{Target: service.ErrImageNotFound, Code: response.CodeNotFound, Msg: "image not found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "order not found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "not found"},
	{Target: service.ErrItemsUnavailable, Code: response.CodeConflict, Msg: "some items are no longer available"},
	{Target: service.ErrEmptyOrder, Code: response.CodeBadRequest, Msg: "order has no items"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Msg: "quantity must be greater than zero"},
	{Target: service.ErrTooManyLines, Code: response.CodeBadRequest, Msg: "too many order lines"},
	{Target: service.ErrStoreIDRequired, Code: response.CodeBadRequest, Msg: "store id is required"},
	{Target: service.ErrInvalidPrice, Code: response.CodeUnprocessableEntity, Msg: "invalid price"},
	{Target: service.ErrMixedCurrency, Code: response.CodeUnprocessableEntity, Msg: "items must share one currency"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeConflict, Msg: "order status transition not allowed"},
	{Target: service.ErrIdempotencyConflict, Code: response.CodeConflict, Msg: "idempotency key reused with a different request"},
	{Target: service.ErrIdempotencyInProgress, Code: response.CodeConflict, Msg: "request with this idempotency key is in progress"},
	{Target: service.ErrInvoiceCreationFailed, Code: response.CodeBadGateway, Msg: "failed to create payment invoice"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Msg: "invalid username or password"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Msg: "captcha is required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Msg: "captcha is invalid"},
	{Target: service.ErrWebhookInvalid, Code: response.CodeBadRequest, Msg: "invalid webhook"},
	{Target: service.ErrValidationFailed, Code: response.CodeUnprocessableEntity, Msg: "validation failed"},
}

// ResolveServiceError 返回错误对应的业务状态码与提示。
func ResolveServiceError(err error) (int, string) {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return response.CodeUnprocessableEntity, "validation failed"
	}
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.Target) {
			return rule.Code, rule.Msg
		}
	}
	return response.CodeInternal, "internal error"
}

// RespondServiceError 将 service 层错误映射为统一响应。
// 字段级校验错误会在 data.fields 中返回详情。
func RespondServiceError(c *gin.Context, err error) {
	code, msg := ResolveServiceError(err)
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		RespondErrorWithData(c, code, msg, map[string]interface{}{
			"fields": validationErr.Fields,
		}, nil)
		return
	}
	if code >= response.CodeInternal {
		RespondError(c, code, msg, err)
		return
	}
	RespondError(c, code, msg, nil)
}
