package routes

import (
	"strings"
	"time"

	"shutterbook/handlers"
	"shutterbook/metrics"
	"shutterbook/middleware"
	"shutterbook/models"
	"shutterbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public authentication endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.AuthenticateUserHandler)
		api.POST("/admin/otp/request", hb.RequestAdminOTPHandler)
		api.POST("/admin/otp/verify", hb.VerifyAdminOTPHandler)
	}
}

// RegisterBookingRoutes registers customer and admin booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	bookingGroup.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.GET("", hb.ListUserBookingsHandler)
		bookingGroup.DELETE("/:id", hb.CancelBookingHandler)

		admin := bookingGroup.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.GET("/all", hb.ListAllBookingsHandler)
		admin.PATCH("/status/:id", hb.UpdateBookingStatusHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func corsConfig(allowedOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins string) {
	r.Use(cors.New(corsConfig(allowedOrigins)))
	r.Use(metrics.Middleware())

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}

// RouterOptions tunes the global middleware.
type RouterOptions struct {
	AllowedOrigins    string
	MaxRequestsPerMin int
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(hb *handlers.HandlerBundle, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(handlers.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(opts.MaxRequestsPerMin))

	RegisterRoutes(router, hb, opts.AllowedOrigins)
	return router
}
