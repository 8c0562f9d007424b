package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/marketplace-backend/internal/config"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/mail"
	"github.com/georgemunganga/marketplace-backend/internal/modules/announce"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/inventory"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/georgemunganga/marketplace-backend/internal/modules/review"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/georgemunganga/marketplace-backend/internal/modules/vendor"
	"github.com/georgemunganga/marketplace-backend/internal/modules/web"
	"github.com/georgemunganga/marketplace-backend/internal/mq"
	"github.com/georgemunganga/marketplace-backend/internal/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer := must(obs.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint))

	db := must(database.Open(ctx, cfg.DatabaseURL))
	defer db.Close()
	must(0, database.Migrate(ctx, db))
	log.Println("[api] connected to the database")

	// ── Side effects ────────────────────────────────────────
	dispatcher := events.NewDispatcher(30 * time.Second)
	sender := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	announce.NewAnnouncer(announce.NewPublisher(announce.Credentials{
		ConsumerKey:       cfg.Twitter.ConsumerKey,
		ConsumerSecret:    cfg.Twitter.ConsumerSecret,
		AccessToken:       cfg.Twitter.AccessToken,
		AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
	})).Subscribe(dispatcher)

	if cfg.RabbitURL != "" {
		relay := must(mq.Dial(cfg.RabbitURL, cfg.MQExchange))
		defer relay.Close()
		relay.Relay(dispatcher)
		log.Printf("[api] relaying events to exchange %s", cfg.MQExchange)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	resetService := auth.NewResetService(userRepo, auth.NewResetPostgresRepository(db), dispatcher, cfg.BaseURL, cfg.ResetTokenTTL)
	dispatcher.Subscribe(events.PasswordResetRequestedKey, "reset-mail", auth.ResetMailHandler(sender))
	go auth.RunJanitor(ctx, resetService, cfg.ResetPurgeInterval)

	router.Use(auth.Middleware(authService))
	user.NewHandler(userService).RegisterRoutes(router)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Stores, products & catalog ──────────────────────────
	inventoryService := inventory.NewService(
		inventory.NewStorePostgresRepository(db),
		inventory.NewProductPostgresRepository(db),
		dispatcher,
	)
	inventory.NewHandler(inventoryService).RegisterRoutes(router)

	reviewService := review.NewService(review.NewPostgresRepository(db))
	review.NewHandler(reviewService).RegisterRoutes(router)

	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), reviewService)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	vendorService := vendor.NewService(vendor.NewPostgresRepository(db), inventoryService)
	vendor.NewHandler(vendorService).RegisterRoutes(router)

	// ── Checkout ────────────────────────────────────────────
	orderService := order.NewService(order.NewPostgresRepository(db), dispatcher)
	dispatcher.Subscribe(events.OrderPlacedKey, "invoice-mail", order.InvoiceMailHandler(userRepo, sender))
	order.NewHandler(orderService).RegisterRoutes(router)

	// ── Web forms ───────────────────────────────────────────
	web.NewHandler(web.NewCookieStore(cfg.SessionSecret, cfg.SessionSecure), web.Services{
		Users:     userService,
		Auth:      authService,
		Reset:     resetService,
		Catalog:   catalogService,
		Inventory: inventoryService,
		Orders:    orderService,
		Reviews:   reviewService,
	}).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}
	go func() {
		log.Printf("[api] marketplace server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[api] http shutdown: %v", err)
	}
	dispatcher.Close()
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("[api] tracer shutdown: %v", err)
	}
	log.Println("[api] stopped")
}
