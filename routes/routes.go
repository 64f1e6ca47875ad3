package routes

import (
	"time"

	"gclient/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterAuthRoutes registers signup, verification and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup/admin", hb.RegisterAdminHandler)
		api.POST("/signup/learner", hb.RegisterLearnerHandler)
		api.POST("/verify-email", hb.VerifyEmailHandler)
		api.POST("/resend-token", hb.ResendVerificationHandler)
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(hb.Auth)
		protected.GET("/check-auth", hb.CheckAuthHandler)
		protected.PUT("/fcm-token", hb.UpdateFCMTokenHandler)
		protected.GET("/users", hb.AdminOnly, hb.ListUsersHandler)
		protected.PUT("/users/:id/status", hb.AdminOnly, hb.SetUserStatusHandler)
	}
}

// RegisterTrackRoutes registers track endpoints. Reads are public.
func RegisterTrackRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tracks")
	{
		api.GET("", hb.ListTracksHandler)
		api.GET("/:id", hb.GetTrackHandler)
		api.POST("", hb.Auth, hb.AdminOnly, hb.CreateTrackHandler)
	}
}

// RegisterInvoiceRoutes registers the invoice workflow. Webhooks authenticate by signature only.
func RegisterInvoiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/invoices")
	{
		api.POST("/paystack-webhook", hb.PaystackWebhookHandler)
		api.POST("/stripe-webhook", hb.StripeWebhookHandler)

		authed := api.Group("")
		authed.Use(hb.Auth)
		authed.POST("", hb.CreateInvoiceHandler)
		authed.GET("/verify-payment", hb.VerifyPaymentHandler)
		authed.GET("/balance", hb.TrackBalanceHandler)

		admin := authed.Group("")
		admin.Use(hb.AdminOnly)
		admin.GET("", hb.ListInvoicesHandler)
		admin.GET("/:id", hb.GetInvoiceHandler)
		admin.GET("/:id/payments", hb.InvoicePaymentsHandler)
		admin.PUT("/:id", hb.BillingAdmins, hb.UpdateInvoiceHandler)
	}
}

// RegisterHealthRoute registers the health snapshot and Prometheus scrape endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterTrackRoutes(r, hb)
	RegisterInvoiceRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
