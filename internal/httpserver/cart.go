package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartAddRequest struct {
	Delta *int `json:"delta"`
}

func cartAddHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartAddRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errorBody{Code: "InvalidQuantity"})
				return
			}
		}
		delta := 1
		if req.Delta != nil {
			delta = *req.Delta
		}
		line, err := svc.AddOrIncrement(c.Request.Context(), currentUser(c).ID, c.Param("itemID"), delta)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func cartSetQuantityHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Code: "InvalidQuantity"})
			return
		}
		line, err := svc.SetQuantity(c.Request.Context(), currentUser(c).ID, c.Param("lineID"), *req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

type wishlistRequest struct {
	Wishlist bool `json:"wishlist"`
}

func wishlistHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := wishlistRequest{Wishlist: true}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, errorBody{Code: "InvalidRequest"})
				return
			}
		}
		line, err := svc.SetWishlist(c.Request.Context(), currentUser(c).ID, c.Param("itemID"), req.Wishlist)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func cartSnapshotHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Snapshot(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
