package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/novashop/checkout/internal/core/domain"
	"github.com/novashop/checkout/internal/core/service"
)

type HTTPHandler struct {
	catalog  *service.CatalogService
	carts    *service.CartService
	checkout *service.CheckoutService
	admin    *service.AdminService
	logger   *zap.Logger
}

func NewHTTPHandler(
	catalog *service.CatalogService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	admin *service.AdminService,
	logger *zap.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		admin:    admin,
		logger:   logger,
	}
}

func (h *HTTPHandler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(h.logger))

	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		products := api.Group("/products")
		{
			products.GET("", h.listProducts)
			products.GET("/:id", h.getProduct)
			products.POST("", h.createProduct)
			products.PUT("/:id", h.updateProduct)
			products.DELETE("/:id", h.deleteProduct)
			products.POST("/update-stock", h.updateStock)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", h.listOrders)
			orders.GET("/:id", h.getOrder)
			orders.PUT("/:id/status", h.updateOrderStatus)
		}

		carts := api.Group("/carts")
		{
			carts.GET("/:id", h.getCart)
			carts.DELETE("/:id", h.clearCart)
			carts.POST("/:id/items", h.addCartItem)
			carts.PUT("/:id/items/:productId", h.setCartQuantity)
			carts.DELETE("/:id/items/:productId", h.removeCartItem)
		}

		api.POST("/checkout", h.submitCheckout)
	}

	return router
}

func (h *HTTPHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ===== products =====

type productRequest struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

func (r productRequest) toDomain(id int64) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       r.Title,
		Price:       r.Price,
		Stock:       r.Stock,
		Status:      domain.ProductStatus(r.Status),
		Category:    r.Category,
		Image:       r.Image,
		Description: r.Description,
	}
}

func (h *HTTPHandler) listProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *HTTPHandler) getProduct(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	product, err := h.catalog.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *HTTPHandler) updateProduct(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	product, err := h.catalog.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) deleteProduct(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

type updateStockRequest struct {
	Updates []domain.StockDelta `json:"updates"`
}

func (h *HTTPHandler) updateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.catalog.AdjustStock(c.Request.Context(), req.Updates); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===== orders =====

func (h *HTTPHandler) listOrders(c *gin.Context) {
	orders, err := h.admin.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *HTTPHandler) getOrder(c *gin.Context) {
	order, err := h.admin.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatus is the admin reconciliation path: approving commits the
// order's stock decrements, refusing leaves stock alone.
func (h *HTTPHandler) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		order *domain.Order
		err   error
	)
	switch domain.OrderStatus(req.Status) {
	case domain.OrderStatusApproved:
		order, err = h.admin.Approve(c.Request.Context(), c.Param("id"))
	case domain.OrderStatusFailed:
		order, err = h.admin.Refuse(c.Request.Context(), c.Param("id"))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or failed"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ===== carts =====

type addItemRequest struct {
	ProductID int64 `json:"productId"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) getCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *HTTPHandler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), c.Param("id"), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *HTTPHandler) setCartQuantity(c *gin.Context) {
	productID, ok := paramInt64(c, "productId")
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cart, err := h.carts.SetQuantity(c.Request.Context(), c.Param("id"), productID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *HTTPHandler) removeCartItem(c *gin.Context) {
	productID, ok := paramInt64(c, "productId")
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), c.Param("id"), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *HTTPHandler) clearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===== checkout =====

func (h *HTTPHandler) submitCheckout(c *gin.Context) {
	var in service.CheckoutInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := h.checkout.Submit(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ===== helpers =====

// respondError maps service errors onto the transport contract: validation
// to 400 with field messages, not-found to 404 with a specific message,
// lifecycle and stock conflicts to 409, everything else to a generic 500
// that leaks no internals.
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrNotPurchasable),
		errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
