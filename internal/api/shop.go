package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashendes/bec-market/internal/assistant"
	"github.com/ashendes/bec-market/internal/auth"
	"github.com/ashendes/bec-market/internal/cart"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/gin-gonic/gin"
)

const (
	// DefaultRecommendedLimit is the number of products on the home page.
	DefaultRecommendedLimit = 4
	MaxRecommendedLimit     = 100
)

func (s *Server) listProducts(c *gin.Context) {
	products := s.catalog.Search(c.Request.Context(), c.Query("q"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func (s *Server) recommendedProducts(c *gin.Context) {
	limit := DefaultRecommendedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > MaxRecommendedLimit {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be an integer between 0 and " + strconv.Itoa(MaxRecommendedLimit),
			})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"products": s.catalog.Recommended(c.Request.Context(), limit)})
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := s.accounts.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    profile,
	})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := s.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// cartKey identifies the caller's cart
func cartKey(c *gin.Context) string {
	return store.NormalizeEmail(auth.Profile(c).Email)
}

// normalizeSize puts a requested size in the form cart lines are keyed by.
func normalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.carts.Snapshot(cartKey(c)))
}

func (s *Server) addCartItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := s.catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	size := normalizeSize(req.Size)
	if product.Category.RequiresSize() {
		if !models.ValidSize(size) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "a size is required for this product",
				"sizes": models.Sizes,
			})
			return
		}
	} else {
		size = ""
	}

	summary := s.carts.Update(cartKey(c), func(ct *cart.Cart) {
		ct.Add(product, size)
	})
	c.JSON(http.StatusOK, summary)
}

func (s *Server) changeCartItem(c *gin.Context) {
	var req models.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	productID := c.Param("productId")
	size := normalizeSize(req.Size)
	summary := s.carts.Update(cartKey(c), func(ct *cart.Cart) {
		ct.ChangeQuantity(productID, size, req.Delta)
	})
	c.JSON(http.StatusOK, summary)
}

func (s *Server) removeCartItem(c *gin.Context) {
	productID := c.Param("productId")
	size := normalizeSize(c.Query("size"))
	summary := s.carts.Update(cartKey(c), func(ct *cart.Cart) {
		ct.Remove(productID, size)
	})
	c.JSON(http.StatusOK, summary)
}

func (s *Server) checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	key := cartKey(c)
	items := s.carts.Snapshot(key).Items

	order, err := s.orders.Checkout(c.Request.Context(), auth.Profile(c), items, req.Shipping)
	if err != nil {
		respondError(c, err)
		return
	}

	// Only a persisted order empties the cart.
	s.carts.Clear(key)

	c.JSON(http.StatusCreated, models.CheckoutResponse{
		Order:   order,
		Payment: s.orders.Payment(order),
		Message: "Order placed successfully",
	})
}

func (s *Server) listMyOrders(c *gin.Context) {
	orders, err := s.orders.ListForUser(c.Request.Context(), auth.Profile(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := s.assistant.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		status := statusFor(err)
		fallback := assistant.FallbackUnavailable
		if errors.Is(err, assistant.ErrNotConfigured) {
			fallback = assistant.FallbackNotConfigured
		}
		if status == http.StatusBadRequest {
			fallback = assistant.FallbackEmpty
		}
		c.JSON(status, gin.H{
			"reply": fallback,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}
