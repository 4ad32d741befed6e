package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequire adapts the net/http guard to Gin, so gin-based back offices can
// mount the same guard without duplicating the decision logic.
func GinRequire(g *Guard, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler so the net/http guard wraps the Gin chain.
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		g.Require(next, roles...).ServeHTTP(c.Writer, c.Request)

		// If the guard already wrote a redirect or error, stop the Gin chain.
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
