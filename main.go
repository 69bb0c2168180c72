package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pranay9392/ecommerce-mernstack-backend/auth"
	"github.com/Pranay9392/ecommerce-mernstack-backend/config"
	orderControllers "github.com/Pranay9392/ecommerce-mernstack-backend/controllers/order"
	"github.com/Pranay9392/ecommerce-mernstack-backend/middleware"
	"github.com/Pranay9392/ecommerce-mernstack-backend/payment"
	"github.com/Pranay9392/ecommerce-mernstack-backend/routes"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := newLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application", zap.String("env", cfg.Env), zap.String("store", cfg.Store))

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal("store init failed", zap.Error(err))
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	guard := middleware.NewGuard(issuer, log)
	if cfg.StrictRoles {
		guard.WithStrictRoles(st)
		log.Info("role checks read the user record on every request")
	}

	gateway := payment.NewHTTPGateway(cfg.PaymentAPIURL, cfg.PaymentKeyID, cfg.PaymentKeySecret, nil)
	hub := orderControllers.NewHub(log)
	ledger := orderControllers.NewLedger(st, gateway, hub, log, orderControllers.LedgerConfig{
		Currency:       cfg.PaymentCurrency,
		PaymentTimeout: cfg.PaymentTimeout,
	})

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", auth.TokenHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Store:  st,
		Issuer: issuer,
		Guard:  guard,
		Ledger: ledger,
		Hub:    hub,
		Log:    log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Development() {
		zapConfig = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	return zapConfig.Build(zap.AddCaller())
}

// openStore picks the document store: Postgres through gorm, or the
// in-process store for local runs.
func openStore(cfg config.Config) (store.Store, error) {
	if cfg.Store == "memory" {
		return store.NewMemoryStore(), nil
	}

	db, err := store.OpenPostgres(cfg.DatabaseURL, cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, nil)
	if err != nil {
		return nil, err
	}
	gs := store.NewGormStore(db)
	if err := gs.Migrate(); err != nil {
		return nil, err
	}
	return gs, nil
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
