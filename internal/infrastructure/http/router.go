package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
)

type Routes struct {
	Deposits *DepositHandler
	// Pix is nil when charges come from a remote backend.
	Pix      *PixHandler
	Hub      *Hub
	Gatherer prometheus.Gatherer
	Logger   logging.Logger
}

func NewRouter(r Routes) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(r.Logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if r.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{})))
	}

	users := engine.Group("/users/:id")
	users.GET("/profile", r.Deposits.Profile)
	users.POST("/deposit", r.Deposits.Open)
	users.GET("/deposit", r.Deposits.Snapshot)
	users.DELETE("/deposit", r.Deposits.Close)
	users.POST("/deposit/charge", r.Deposits.Generate)
	if r.Hub != nil {
		users.GET("/deposit/ws", r.Hub.Serve)
	}

	if r.Pix != nil {
		engine.POST("/pix", r.Pix.Create)
		engine.GET("/pix/:txid/status", r.Pix.Status)
		engine.POST("/pix/:txid/pay", r.Pix.Pay)
	}

	return engine
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Nop{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration-ms": time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("http request failed", fields)
			return
		}
		logger.Info("http request", fields)
	}
}
