package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/propshare/propshare-backend/api/controllers"
	"github.com/propshare/propshare-backend/api/middleware"
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
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/logger"
	"github.com/propshare/propshare-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth          auth.Service
	Users         users.Service
	Properties    properties.Service
	Wallet        wallet.Service
	Investments   investments.Service
	KYC           kyc.Service
	Wishlist      wishlist.Service
	Notifications notifications.Service
	Portfolio     portfolio.Service
	Commissions   commissions.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/send-otp", controllers.SendOTP(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/verify-otp", controllers.VerifyOTP(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.Logout(svcs.Auth, logg))
			r.Get("/me", controllers.Me(svcs.Auth, logg))
		})
	})

	r.Route("/api/admin/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminLogin(svcs.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", controllers.BrowseProperties(svcs.Properties, logg))
			r.Get("/{propertyID}", controllers.PropertyDetail(svcs.Properties, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", controllers.WalletBalance(svcs.Wallet, logg))
			r.Post("/add-funds", controllers.WalletAddFunds(svcs.Wallet, logg))
			r.Get("/transactions", controllers.WalletTransactions(svcs.Wallet, logg))

			r.Route("/investments", func(r chi.Router) {
				r.Post("/create", controllers.CreateInvestment(svcs.Investments, logg))
				r.Get("/my-investments", controllers.MyInvestments(svcs.Investments, logg))
				r.Get("/{investmentID}/details", controllers.InvestmentDetail(svcs.Investments, logg))
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.ListWishlist(svcs.Wishlist, logg))
			r.Post("/", controllers.AddWishlistItem(svcs.Wishlist, logg))
			r.Delete("/{propertyID}", controllers.RemoveWishlistItem(svcs.Wishlist, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/kyc", func(r chi.Router) {
			r.Post("/aadhaar", controllers.SubmitKYCStep(svcs.KYC, enums.KYCStepAadhaar, logg))
			r.Post("/pan", controllers.SubmitKYCStep(svcs.KYC, enums.KYCStepPAN, logg))
			r.Post("/bank", controllers.SubmitKYCStep(svcs.KYC, enums.KYCStepBank, logg))
			r.Get("/status", controllers.KYCStatus(svcs.KYC, logg))
		})

		r.Get("/portfolio/summary", controllers.PortfolioSummary(svcs.Portfolio, logg))

		r.With(middleware.RequireRole(string(enums.UserRoleChannelPartner), logg)).
			Get("/commissions", controllers.PartnerCommissions(svcs.Commissions, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/investments", func(r chi.Router) {
				r.Get("/", controllers.AdminListInvestments(svcs.Investments, logg))
				r.Get("/{investmentID}", controllers.AdminInvestmentDetail(svcs.Investments, logg))
				r.Post("/{investmentID}/action", controllers.AdminInvestmentAction(svcs.Investments, logg))
			})

			r.Route("/properties", func(r chi.Router) {
				r.Get("/", controllers.AdminListProperties(svcs.Properties, logg))
				r.Post("/", controllers.AdminCreateProperty(svcs.Properties, logg))
				r.Patch("/{propertyID}", controllers.AdminUpdateProperty(svcs.Properties, logg))
				r.Post("/{propertyID}/status", controllers.AdminSetPropertyStatus(svcs.Properties, logg))
				r.Delete("/{propertyID}", controllers.AdminDeleteProperty(svcs.Properties, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(svcs.Users, logg))
				r.Get("/{userID}", controllers.AdminUserDetail(svcs.Users, logg))
				r.Post("/{userID}/activate", controllers.AdminSetUserActive(svcs.Users, true, logg))
				r.Post("/{userID}/deactivate", controllers.AdminSetUserActive(svcs.Users, false, logg))
			})

			r.Route("/kyc", func(r chi.Router) {
				r.Get("/{userID}", controllers.AdminKYCStatus(svcs.KYC, logg))
				r.Post("/{userID}/override", controllers.AdminKYCOverride(svcs.KYC, logg))
			})

			r.Route("/commissions", func(r chi.Router) {
				r.Get("/", controllers.AdminListCommissions(svcs.Commissions, logg))
				r.Post("/{commissionID}/paid", controllers.AdminMarkCommissionPaid(svcs.Commissions, logg))
				r.Post("/{commissionID}/void", controllers.AdminVoidCommission(svcs.Commissions, logg))
			})
		})
	})

	return r
}
