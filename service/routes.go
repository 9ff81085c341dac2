package service

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

func SetupRoutes(server *Server) *gin.Engine {
	routes := gin.New()
	routes.Use(gin.Recovery(), RequestID(), RequestLogger(server.Logger))

	routes.GET("/activity/:username", server.Activity)

	cachedRoutes := routes.Group("/")
	{
		cachedRoutes.Use(server.CacheUserRequest)

		cachedRoutes.PUT("/book", server.CreateBook)
		cachedRoutes.POST("/book/:isbn", server.UpdateBook)
		cachedRoutes.GET("/book/:isbn", server.GetBook)
		cachedRoutes.DELETE("/book/:isbn", server.DeleteBook)
		cachedRoutes.GET("/search", server.SearchBooks)
		cachedRoutes.GET("/store", server.Store)
		cachedRoutes.GET("/index/store", server.IndexStore)

		cachedRoutes.PUT("/member", server.CreateMember)
		cachedRoutes.GET("/members", server.ListMembers)
		cachedRoutes.POST("/member/:id", server.UpdateMember)
		cachedRoutes.GET("/member/:id", server.GetMember)
		cachedRoutes.DELETE("/member/:id", server.DeleteMember)
		cachedRoutes.POST("/member/:id/borrow/:isbn", server.BorrowBook)
		cachedRoutes.POST("/member/:id/return/:isbn", server.ReturnBook)
	}

	return routes
}

// RequestID tags every request with an id, reusing the caller's X-Request-ID if present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}

		logger.Log(c, level, "Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}
