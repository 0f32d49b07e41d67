package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/openacademy/messaging-backend/internal/handler"
	"github.com/openacademy/messaging-backend/internal/middleware"
	"github.com/openacademy/messaging-backend/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

// Setup configures the messaging API routes
func Setup(router *gin.Engine, convHandler *handler.ConversationHandler, msgHandler *handler.MessageHandler, wsHandler *handler.WSHandler, jwtManager *jwt.Manager, redisClient *redis.Client) {
	auth := middleware.JWTAuth(jwtManager)

	conversations := router.Group("/api/v1/conversations", auth)
	conversations.POST("", convHandler.Start)
	conversations.GET("", convHandler.List)
	conversations.GET("/unread-count", convHandler.UnreadTotal)
	conversations.PUT("/read-all", msgHandler.MarkAllRead)
	conversations.PUT("/:id/archive", convHandler.Archive)
	conversations.DELETE("/:id/archive", convHandler.Unarchive)
	conversations.PUT("/:id/read", msgHandler.MarkRead)
	conversations.GET("/:id/messages", msgHandler.List)
	// Per-user limit on sends so one account can't flood a peer
	conversations.POST("/:id/messages", middleware.RateLimitPerUser(redisClient, 60), msgHandler.Send)

	messages := router.Group("/api/v1/messages", auth)
	messages.PUT("/:id", msgHandler.Edit)

	if wsHandler != nil {
		router.GET("/ws/messages", auth, wsHandler.Connect)
	}
}
