package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
// Пустой corsOrigins разрешает все источники.
func SetupRouter(h *Handler, zapLogger *zap.Logger, corsOrigins []string, metricsHandler http.Handler) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(corsOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = corsOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/healthz", h.HealthHandler)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/search/status", h.GetSearchStatusHandler)
		v1.POST("/search/start", h.StartSearchHandler)
		v1.POST("/search/stop", h.StopSearchHandler)
		v1.GET("/findings", h.GetFindingsHandler)
		v1.POST("/mnemonics/validate", h.ValidateMnemonicHandler)
		v1.POST("/balances", h.CheckBalancesHandler)
	}

	return router
}

// ZapLoggerMiddleware пишет каждый запрос в zap.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			logger.Warn("HTTP request", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Debug("HTTP request", fields...)
	}
}
