// Package api exposes the shop over HTTP with gin.
package api

import (
	"net/http"
	"time"

	"github.com/ashendes/bec-market/internal/assistant"
	"github.com/ashendes/bec-market/internal/auth"
	"github.com/ashendes/bec-market/internal/cart"
	"github.com/ashendes/bec-market/internal/catalog"
	"github.com/ashendes/bec-market/internal/metrics"
	"github.com/ashendes/bec-market/internal/orders"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// ServiceName labels metrics and logs.
const ServiceName = "shop-service"

// Server holds the services behind the HTTP handlers
type Server struct {
	catalog   *catalog.Service
	carts     *cart.Registry
	orders    *orders.Service
	accounts  *auth.Service
	users     store.UserStore
	assistant *assistant.Client
}

// Deps lists what NewServer wires together.
type Deps struct {
	Catalog   *catalog.Service
	Carts     *cart.Registry
	Orders    *orders.Service
	Accounts  *auth.Service
	Users     store.UserStore
	Assistant *assistant.Client
}

// NewServer creates the HTTP layer. A nil Carts gets a fresh registry.
func NewServer(d Deps) *Server {
	if d.Carts == nil {
		d.Carts = cart.NewRegistry()
	}
	return &Server{
		catalog:   d.Catalog,
		carts:     d.Carts,
		orders:    d.Orders,
		accounts:  d.Accounts,
		users:     d.Users,
		assistant: d.Assistant,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), metrics.PrometheusMiddleware(ServiceName))

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/products", s.listProducts)
	router.GET("/products/recommended", s.recommendedProducts)

	router.POST("/auth/register", s.register)
	router.POST("/auth/login", s.login)

	router.POST("/assistant/chat", s.chat)

	tokens := s.accounts.Tokens()

	shopper := router.Group("/", tokens.Required())
	shopper.GET("/cart", s.getCart)
	shopper.POST("/cart/items", s.addCartItem)
	shopper.PATCH("/cart/items/:productId", s.changeCartItem)
	shopper.DELETE("/cart/items/:productId", s.removeCartItem)
	shopper.POST("/checkout", s.checkout)
	shopper.GET("/orders", s.listMyOrders)

	admin := router.Group("/admin", tokens.Required(), auth.AdminOnly())
	admin.GET("/orders", s.listAllOrders)
	admin.GET("/stats", s.stats)
	admin.GET("/users", s.listUsers)
	admin.POST("/orders/:id/:action", s.updateOrderStatus)
	admin.POST("/products", s.createProduct)
	admin.PUT("/products/:id", s.updateProduct)
	admin.DELETE("/products/:id", s.deleteProduct)

	return router
}

// health reports liveness and the assistant circuit state
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"assistant": gin.H{
			"configured": s.assistant.Configured(),
			"circuit":    s.assistant.State(),
		},
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Debug("Request handled")
	}
}
