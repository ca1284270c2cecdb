package runtime

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// executeRequest is the body of POST /nodes/:name/execute.
type executeRequest struct {
	Items          []map[string]any `json:"items"`
	ContinueOnFail *bool            `json:"continue_on_fail"`
}

// NewHttpHandler registers the HTTP entrypoints for an app:
//
//	GET  /health
//	GET  /nodes
//	POST /nodes/:name/execute
func NewHttpHandler(app *App, l *slog.Logger, g *gin.Engine) {
	if l == nil {
		l = slog.Default()
	}

	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g.GET("/nodes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"nodes": app.NodeList()})
	})

	g.POST("/nodes/:name/execute", handleExecute(app, l))
}

func handleExecute(app *App, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		node, ok := app.Node(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Unknown node: " + name})
			return
		}

		var req executeRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Wrong request body format"})
				return
			}
		}

		if req.ContinueOnFail != nil {
			node.ContinueOnFail = *req.ContinueOnFail
		}

		// A run with no input still executes once, like a manual trigger.
		items := ItemsFromJSON(req.Items)
		if len(items) == 0 {
			items = []Item{{JSON: map[string]any{}}}
		}

		results, err := app.Executor.Execute(c.Request.Context(), &node, items)
		if err != nil {
			l.Error("Node execution failed",
				"node", node.Name,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err.Error())

			var nodeErr *NodeError
			if errors.As(err, &nodeErr) {
				c.JSON(http.StatusBadGateway, gin.H{
					"node":    node.Name,
					"error":   nodeErr.ToMap(),
					"results": results,
				})
				return
			}

			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error in node execution: " + err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"node":    node.Name,
			"results": results,
		})
	}
}
