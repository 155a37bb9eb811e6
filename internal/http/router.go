package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"devhub/internal/config"
	"devhub/internal/http/controller"
	"devhub/internal/http/middleware"
	"devhub/internal/metrics"
)

func NewRouter(handler *controller.Handler, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/sse", handler.SSE)

	notifications := router.Group("/notifications")
	notifications.GET("", handler.ListNotifications)
	notifications.GET("/unread-count", handler.UnreadCount)
	notifications.GET("/history", handler.History)

	write := notifications.Group("", middleware.JWTAuth(cfg.JWTSecret))
	write.POST("", handler.CreateNotification)
	write.POST("/publish", handler.PublishNotification)
	write.PUT("/read-all", handler.MarkAllRead)
	write.PUT("/:id/read", handler.MarkRead)

	return router
}
