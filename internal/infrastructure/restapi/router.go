package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the deep-link surface. gatherer backs /metrics; nil uses the default registry.
func SetupRouter(h *ExchangeHandler, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(requestLogger(logger.Named("http")))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/swap", h.Swap)
		v1.POST("/sell", h.Sell)
		v1.POST("/fund", h.Fund)
		v1.POST("/token-approval", h.TokenApproval)
	}

	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return router
}
