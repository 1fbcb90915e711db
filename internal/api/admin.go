package api

import (
	"net/http"

	"github.com/ashendes/bec-market/internal/auth"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (s *Server) listAllOrders(c *gin.Context) {
	orders, err := s.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// stats backs the admin dashboard: sales figures plus the number of
// registered users.
func (s *Server) stats(c *gin.Context) {
	stats, err := s.orders.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": stats,
		"users":  len(users),
	})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id := c.Param("id")
	ev, ok := models.ParseOrderEvent(c.Param("action"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "unknown order action",
			"action": c.Param("action"),
		})
		return
	}

	var shipment *models.Shipment
	if ev == models.EventShip {
		shipment = &models.Shipment{}
		if err := c.ShouldBindJSON(shipment); err != nil {
			badRequest(c, err)
			return
		}
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), id, ev, shipment)
	if err != nil {
		respondError(c, err)
		return
	}

	log.WithFields(log.Fields{
		"order_id": id,
		"action":   ev,
		"admin":    auth.Profile(c).Email,
	}).Info("Admin updated order")

	c.JSON(http.StatusOK, order)
}

func (s *Server) createProduct(c *gin.Context) {
	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	product, err := s.catalog.CreateProduct(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	product, err := s.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
