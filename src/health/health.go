// Package health serves the liveness endpoint the hosting platform polls.
package health

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// New builds the health router.
func New() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running")
	})
	return g
}

// Serve runs the health endpoint in the background.
func Serve(port string) {
	g := New()
	go func() {
		log.Printf("health check on port %s", port)
		if err := g.Run(":" + port); err != nil {
			log.Printf("health server stopped: %v", err)
		}
	}()
}
