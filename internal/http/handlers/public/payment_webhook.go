package public

import (
	"errors"
	"io"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// StripeWebhook Stripe webhook 回调。
// 签名校验失败返回 400，业务处理失败返回 500，Stripe 会按状态码决定是否重试。
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := requestLog(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("stripe_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	log.Infow("stripe_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"has_signature", signature != "",
	)

	if err := h.PurchaseService.HandleStripeWebhook(signature, body); err != nil {
		switch {
		case errors.Is(err, service.ErrSignatureInvalid):
			log.Warnw("stripe_webhook_signature_invalid", "error", err)
			respondError(c, response.CodeBadRequest, "error.payment_signature", nil)
		case errors.Is(err, service.ErrPaymentNotConfigured):
			log.Warnw("stripe_webhook_not_configured", "error", err)
			respondError(c, response.CodeInternal, "error.payment_not_configured", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{"received": true})
}
