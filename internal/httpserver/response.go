package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code string `json:"code"`
}

// writeError maps domain sentinels to the wire error codes exposed to
// clients.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, errorBody{Code: "EmptyCart"})
	case errors.Is(err, domain.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, errorBody{Code: "InvalidAddress"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, errorBody{Code: "InvalidQuantity"})
	case errors.Is(err, domain.ErrGateway):
		c.JSON(http.StatusBadGateway, errorBody{Code: "GatewayError"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Code: "NotFound"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, errorBody{Code: "Conflict"})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Code: "Internal"})
	}
}
