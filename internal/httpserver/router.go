package httpserver

import (
	"context"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/importer"
	"storefront/internal/service/settlement"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services and repositories the handlers need.
type Deps struct {
	CartSvc       cartService
	CheckoutSvc   checkoutService
	SettlementSvc settlementService
	AddressRepo   addressRepository
	OrderRepo     orderLister
	UserRepo      userGetter
	ItemRepo      importer.ItemWriter
	// OwnerUserID marks the store owner; admin routes require it.
	OwnerUserID string
	CORSOrigins string
}

type cartService interface {
	AddOrIncrement(ctx context.Context, userID, itemID string, delta int) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	SetWishlist(ctx context.Context, userID, itemID string, on bool) (*domain.CartLine, error)
	Snapshot(ctx context.Context, userID string) (*domain.CartSnapshot, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, userID, addressID string) (string, error)
}

type settlementService interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) (settlement.Ack, error)
}

type addressRepository interface {
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
}

type orderLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.OrderBatch, error)
	ListAll(ctx context.Context) ([]domain.OrderBatch, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if deps.CORSOrigins == "" || deps.CORSOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(deps.CORSOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-User-ID")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// The provider signs webhook calls itself; no user identity involved.
	router.POST("/payment-webhook", webhookHandler(deps.SettlementSvc, logger))

	authed := router.Group("/", authMiddleware(deps.UserRepo))
	{
		authed.GET("/cart", cartSnapshotHandler(deps.CartSvc))
		authed.POST("/cart/:itemID", cartAddHandler(deps.CartSvc))
		authed.PATCH("/cart/lines/:lineID", cartSetQuantityHandler(deps.CartSvc))
		authed.POST("/wishlist/:itemID", wishlistHandler(deps.CartSvc))

		authed.POST("/addresses", addressCreateHandler(deps.AddressRepo))
		authed.GET("/addresses", addressListHandler(deps.AddressRepo))
		authed.DELETE("/addresses/:addressID", addressDeleteHandler(deps.AddressRepo))

		authed.POST("/checkout/:addressID", checkoutHandler(deps.CheckoutSvc))
		authed.GET("/orders", ordersListHandler(deps.OrderRepo))

		admin := authed.Group("/admin", ownerOnly(deps.OwnerUserID))
		admin.GET("/orders", adminOrdersHandler(deps.OrderRepo))
		admin.POST("/items/import", adminImportHandler(deps.ItemRepo))
	}

	return router
}
