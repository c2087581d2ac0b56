package handler

import (
	"returns-settlement-engine/internal/adapter/http/middleware"
	"returns-settlement-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ReturnSvc      ports.ReturnService
	SlipSvc        ports.ExchangeSlipService
	CreditSvc      ports.OverpaymentService
	LookupSvc      ports.SaleLookupService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	AuditSvc       ports.AuditService   // nil = audit logging disabled
	HealthCheckers []ports.HealthChecker
	AllowedOrigins []string
	Mode           string // gin mode; empty means release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// Every API route acts on behalf of an authenticated staff member.
	v1 := r.Group("/api/v1", middleware.JWTAuth(deps.TokenSvc, deps.Logger))

	returnHandler := NewReturnHandler(deps.ReturnSvc)
	reportHandler := NewReportHandler(deps.LookupSvc, deps.ReportingSvc)
	returns := v1.Group("/returns")
	{
		returns.POST("/validate", rl("returns_validate"), returnHandler.Validate)
		returns.POST("", rl("returns_process"), middleware.IdempotencyKey(), returnHandler.Process)
		returns.GET("/analytics", rl("reports"), reportHandler.Analytics)
	}

	v1.GET("/sales/lookup", rl("lookup"), reportHandler.LookupSales)

	slipHandler := NewSlipHandler(deps.SlipSvc)
	slips := v1.Group("/exchange-slips")
	{
		slips.GET("", rl("slips"), slipHandler.Search)
		slips.POST("/:slip/redeem", rl("slips"), slipHandler.Redeem)
		slips.POST("/:slip/cancel", rl("slips"), slipHandler.Cancel)
	}

	customerHandler := NewCustomerHandler(deps.CreditSvc, deps.ReportingSvc)
	customers := v1.Group("/customers/:customer_id")
	{
		customers.GET("/returns", rl("reports"), customerHandler.ReturnHistory)
		customers.GET("/overpayments", rl("credits"), customerHandler.ListCredits)
		customers.POST("/overpayments/use", rl("credits"), customerHandler.UseOverpayment)
	}

	return r
}
