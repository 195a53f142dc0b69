package httpserver

import (
	"errors"
	"io"
	"log"
	"net/http"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// webhookHandler receives provider settlement events. Only a signature
// failure is rejected; everything else is acknowledged so the provider does
// not redeliver forever, and internal errors return 500 so it does.
func webhookHandler(svc settlementService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"accepted": false})
			return
		}

		ack, err := svc.HandleEvent(c.Request.Context(), payload, c.GetHeader("Signature"))
		if err != nil {
			if errors.Is(err, domain.ErrSignatureInvalid) {
				c.JSON(http.StatusBadRequest, gin.H{"accepted": false})
				return
			}
			logger.Printf("webhook: internal error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"accepted": false})
			return
		}
		c.JSON(http.StatusOK, ack)
	}
}
