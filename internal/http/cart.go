package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"suncoast/internal/cart"
	"suncoast/internal/catalog"
	"suncoast/internal/repository"
)

type addItemReq struct {
	ProductID int64  `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

type updateItemReq struct {
	Quantity int64 `json:"quantity"`
}

type checkoutReq struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
}

// sessionCart loads the catalog before the cart so line prices resolve
// against a current snapshot.
func (s *Server) sessionCart(c *gin.Context) (*catalog.Catalog, *cart.Cart, bool) {
	cat, err := s.catalog.Current(c)
	if err != nil {
		s.fail(c, err)
		return nil, nil, false
	}
	crt, err := s.carts.Get(c, s.session(c))
	if err != nil {
		s.fail(c, err)
		return nil, nil, false
	}
	return cat, crt, true
}

// existingCart is sessionCart for reads and removals: a caller without a
// session or cart gets a nil cart and nothing is created for them.
func (s *Server) existingCart(c *gin.Context) (*cart.Cart, bool) {
	if _, err := s.catalog.Current(c); err != nil {
		s.fail(c, err)
		return nil, false
	}
	id, ok := existingSession(c)
	if !ok {
		return nil, true
	}
	crt, _, err := s.carts.Find(c, id)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return crt, true
}

// @Summary Get cart
// @Description Lines priced from the current catalog. A caller without a cart gets an empty one; nothing is stored for them.
// @Tags cart
// @Produce json
// @Success 200 {object} cart.Snapshot
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	crt, ok := s.existingCart(c)
	if !ok {
		return
	}
	if crt == nil {
		c.JSON(http.StatusOK, cart.EmptySnapshot())
		return
	}
	c.JSON(http.StatusOK, crt.Snapshot())
}

// @Summary Add item to cart
// @Description Adding an existing variant increases its quantity. Variant defaults to the product's default variant and quantity to 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addItemReq true "Item"
// @Success 200 {object} cart.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cat, crt, ok := s.sessionCart(c)
	if !ok {
		return
	}

	product, found := cat.Product(req.ProductID)
	if !found {
		s.fail(c, repository.ErrNotFound)
		return
	}
	variant, found := product.DefaultVariant()
	if req.VariantID != "" {
		variant, found = product.Variant(req.VariantID)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "variant not found"})
		return
	}
	c.JSON(http.StatusOK, crt.AddItem(product, variant, req.Quantity))
}

// @Summary Set item quantity
// @Description A quantity of zero or less removes the line.
// @Tags cart
// @Accept json
// @Produce json
// @Param product_id path int true "Product ID"
// @Param variant_id path string true "Variant ID"
// @Param input body updateItemReq true "Quantity"
// @Success 200 {object} cart.Snapshot
// @Failure 400 {object} map[string]string
// @Router /cart/items/{product_id}/{variant_id} [put]
func (s *Server) updateCartItem(c *gin.Context) {
	id, err := parseID(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
		return
	}
	var req updateItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	crt, ok := s.existingCart(c)
	if !ok {
		return
	}
	if crt == nil {
		c.JSON(http.StatusOK, cart.EmptySnapshot())
		return
	}
	c.JSON(http.StatusOK, crt.UpdateQuantity(id, c.Param("variant_id"), req.Quantity))
}

// @Summary Remove item from cart
// @Tags cart
// @Produce json
// @Param product_id path int true "Product ID"
// @Param variant_id path string true "Variant ID"
// @Success 200 {object} cart.Snapshot
// @Failure 400 {object} map[string]string
// @Router /cart/items/{product_id}/{variant_id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	id, err := parseID(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
		return
	}
	crt, ok := s.existingCart(c)
	if !ok {
		return
	}
	if crt == nil {
		c.JSON(http.StatusOK, cart.EmptySnapshot())
		return
	}
	c.JSON(http.StatusOK, crt.RemoveItem(id, c.Param("variant_id")))
}

// @Summary Clear cart
// @Tags cart
// @Produce json
// @Success 200 {object} cart.Snapshot
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	crt, ok := s.existingCart(c)
	if !ok {
		return
	}
	if crt == nil {
		c.JSON(http.StatusOK, cart.EmptySnapshot())
		return
	}
	c.JSON(http.StatusOK, crt.Clear())
}

// @Summary Checkout
// @Description Turns the session cart into a confirmed order and decrements stock.
// @Tags orders
// @Accept json
// @Produce json
// @Param input body checkoutReq true "Customer"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkout [post]
func (s *Server) checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if _, err := s.catalog.Current(c); err != nil {
		s.fail(c, err)
		return
	}
	id, ok := existingSession(c)
	if !ok {
		// no cart can exist; the lookup still validates input first
		id = uuid.NewString()
	}
	o, err := s.orders.Checkout(c, id, req.CustomerName, req.Email)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := s.orders.GetOrder(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Cancel order
// @Description Confirmed orders only. Restores variant stock.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{id}/cancel [post]
func (s *Server) cancelOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := s.orders.CancelOrder(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
