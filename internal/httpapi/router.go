package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the middleware chain and routes. Every calculation route
// answers GET with query parameters and POST with a JSON body.
func NewRouter(h *Handler, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationID())
	r.Use(RequestLogger(logger))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	r.GET("/healthz", h.Health)

	api := r.Group("/api/tax-calculation")
	{
		api.GET("", h.Calculate)
		api.POST("", h.Calculate)
		api.GET("/form1040", h.Form1040)
		api.POST("/form1040", h.Form1040)
		api.GET("/form1040.xlsx", h.Form1040XLSX)
		api.POST("/form1040.xlsx", h.Form1040XLSX)
	}
	return r
}
