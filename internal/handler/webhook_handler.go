package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/slformation-dryyss/slformations-sub002/internal/dto"
	"github.com/slformation-dryyss/slformations-sub002/internal/service"
	appErrors "github.com/slformation-dryyss/slformations-sub002/pkg/errors"
	"github.com/slformation-dryyss/slformations-sub002/pkg/response"
)

// WebhookHandler receives payment-provider deliveries.
type WebhookHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(payments *service.PaymentService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{payments: payments, logger: logger}
}

// HandlePayment godoc
// @Summary Receive a payment-succeeded webhook
// @Description Acknowledges every parseable delivery with 200 so the provider
// @Description stops retrying. Reconciliation failures are surfaced through
// @Description logs and metrics, never through the response status.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param payload body dto.PaymentEvent true "Payment event"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	var event dto.PaymentEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpstreamInvalid.Code, http.StatusBadRequest, "unparseable webhook body"))
		return
	}

	if err := h.payments.Reconcile(c.Request.Context(), event); err != nil {
		// Acknowledge anyway. Redelivering the same event cannot fix an
		// internal failure and would only amplify load.
		h.logger.Error("payment reconciliation failed",
			zap.String("provider_session_id", event.ProviderSessionID),
			zap.Error(err),
		)
	}
	response.JSON(c, http.StatusOK, gin.H{"received": true}, nil)
}
