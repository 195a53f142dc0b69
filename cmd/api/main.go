package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/gateway/hostedpay"
	"storefront/internal/httpserver"
	"storefront/internal/notify"
	addressrepo "storefront/internal/repository/address"
	cartrepo "storefront/internal/repository/cart"
	itemrepo "storefront/internal/repository/item"
	orderrepo "storefront/internal/repository/order"
	paymentrepo "storefront/internal/repository/payment"
	userrepo "storefront/internal/repository/user"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	reapersvc "storefront/internal/service/reaper"
	settlementsvc "storefront/internal/service/settlement"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	userRepo := userrepo.NewPostgres(dbpool)
	itemRepo := itemrepo.NewPostgres(dbpool, logger)
	addressRepo := addressrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	paymentRepo := paymentrepo.NewPostgres(dbpool)

	gateway := hostedpay.NewClient(hostedpay.Config{
		APIURL:     cfg.PayAPIURL,
		SecretKey:  cfg.PaySecretKey,
		SuccessURL: cfg.PaySuccessURL,
		CancelURL:  cfg.PayCancelURL,
		Timeout:    cfg.PayTimeout,
	}, logger)
	notifier := notify.NewSMTP(cfg.SMTPAddr, cfg.SMTPFrom)

	cartService := cartsvc.New(cartRepo)
	checkoutService := checkoutsvc.New(cartRepo, addressRepo, orderRepo, paymentRepo, gateway, logger)
	verifier := settlementsvc.NewVerifier(cfg.WebhookSigningSecret, cfg.WebhookTolerance)
	settlementService := settlementsvc.New(verifier, orderRepo, itemRepo, addressRepo, userRepo, notifier, cfg.OwnerEmail, logger)

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go reapersvc.New(orderRepo, cfg.PendingTTL, cfg.ReaperInterval, logger).Run(reaperCtx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:       cartService,
		CheckoutSvc:   checkoutService,
		SettlementSvc: settlementService,
		AddressRepo:   addressRepo,
		OrderRepo:     orderRepo,
		UserRepo:      userRepo,
		ItemRepo:      itemRepo,
		OwnerUserID:   cfg.OwnerUserID,
		CORSOrigins:   cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopReaper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
