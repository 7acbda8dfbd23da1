package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/propshare/propshare-backend/api/routes"
	"github.com/propshare/propshare-backend/internal/auth"
	"github.com/propshare/propshare-backend/internal/commissions"
	"github.com/propshare/propshare-backend/internal/investments"
	"github.com/propshare/propshare-backend/internal/kyc"
	"github.com/propshare/propshare-backend/internal/notifications"
	"github.com/propshare/propshare-backend/internal/portfolio"
	"github.com/propshare/propshare-backend/internal/properties"
	"github.com/propshare/propshare-backend/internal/users"
	"github.com/propshare/propshare-backend/internal/wallet"
	"github.com/propshare/propshare-backend/internal/wishlist"
	"github.com/propshare/propshare-backend/pkg/auth/session"
	"github.com/propshare/propshare-backend/pkg/config"
	"github.com/propshare/propshare-backend/pkg/db"
	"github.com/propshare/propshare-backend/pkg/logger"
	"github.com/propshare/propshare-backend/pkg/migrate"
	"github.com/propshare/propshare-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	svcs, err := buildServices(cfg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client, sessionManager *session.Manager) (routes.Services, error) {
	gdb := dbClient.DB()

	userRepo := users.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		OTPStore:       redisClient,
		JWTConfig:      cfg.JWT,
		OTPConfig:      cfg.OTP,
		RateLimit:      cfg.AuthRateLimit,
		DevEcho:        cfg.OTP.DevEcho && !cfg.App.IsProd(),
	})
	if err != nil {
		return routes.Services{}, err
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, err
	}

	propertyRepo := properties.NewRepository(gdb)
	propertiesService, err := properties.NewService(propertyRepo, dbClient)
	if err != nil {
		return routes.Services{}, err
	}

	walletRepo := wallet.NewRepository(gdb)
	ledger, err := wallet.NewLedger(walletRepo)
	if err != nil {
		return routes.Services{}, err
	}
	walletService, err := wallet.NewService(walletRepo, dbClient, ledger)
	if err != nil {
		return routes.Services{}, err
	}

	notificationsRepo := notifications.NewRepository(gdb)
	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		return routes.Services{}, err
	}
	notifier, err := notifications.NewNotifier(notificationsRepo)
	if err != nil {
		return routes.Services{}, err
	}

	commissionsRepo := commissions.NewRepository(gdb)
	commissionsService, err := commissions.NewService(commissionsRepo)
	if err != nil {
		return routes.Services{}, err
	}
	recorder, err := commissions.NewRecorder(commissionsRepo, userRepo, cfg.Commission)
	if err != nil {
		return routes.Services{}, err
	}

	investmentsService, err := investments.NewService(
		investments.NewRepository(gdb),
		dbClient,
		investments.NewUnitInventory(),
		ledger,
		recorder,
		notifier,
		investments.NewPropertyReader(),
	)
	if err != nil {
		return routes.Services{}, err
	}

	verifier, err := kyc.NewHTTPVerifier(cfg.KYC)
	if err != nil {
		return routes.Services{}, err
	}
	kycService, err := kyc.NewService(kyc.NewRepository(gdb), dbClient, verifier, kyc.NewUserStatusWriter(), notifier)
	if err != nil {
		return routes.Services{}, err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(gdb),
		Properties:   propertyRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	portfolioService, err := portfolio.NewService(portfolio.NewRepository(gdb))
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Users:         usersService,
		Properties:    propertiesService,
		Wallet:        walletService,
		Investments:   investmentsService,
		KYC:           kycService,
		Wishlist:      wishlistService,
		Notifications: notificationsService,
		Portfolio:     portfolioService,
		Commissions:   commissionsService,
	}, nil
}
