package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// checkoutHandler starts the hosted payment flow and sends the browser to
// the provider's checkout page.
func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirectURL, err := svc.Checkout(c.Request.Context(), currentUser(c).ID, c.Param("addressID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, redirectURL)
	}
}

func ordersListHandler(orders orderLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		batches, err := orders.ListByUser(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": batches})
	}
}

func adminOrdersHandler(orders orderLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		batches, err := orders.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": batches})
	}
}
