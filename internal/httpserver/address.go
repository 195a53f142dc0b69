package httpserver

import (
	"net/http"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

type addressRequest struct {
	Country      string `json:"country" binding:"required"`
	Region       string `json:"region" binding:"required"`
	City         string `json:"city" binding:"required"`
	Street       string `json:"street" binding:"required"`
	StreetNumber string `json:"streetNumber" binding:"required"`
}

func addressCreateHandler(repo addressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Code: "InvalidRequest"})
			return
		}
		addr, err := repo.Create(c.Request.Context(), domain.Address{
			UserID:       currentUser(c).ID,
			Country:      req.Country,
			Region:       req.Region,
			City:         req.City,
			Street:       req.Street,
			StreetNumber: req.StreetNumber,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

func addressListHandler(repo addressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		addrs, err := repo.ListByUser(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addrs})
	}
}

// addressDeleteHandler refuses to delete addresses still referenced by an
// order batch; order history must stay resolvable.
func addressDeleteHandler(repo addressRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), currentUser(c).ID, c.Param("addressID")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
