package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"suncoast/internal/auth"
	"suncoast/internal/cart"
	"suncoast/internal/catalog"
	"suncoast/internal/logging"
	"suncoast/internal/repository"
	"suncoast/internal/service"
)

const (
	sessionCookie    = "cart_session"
	sessionMaxAge    = 30 * 24 * time.Hour
	defaultPageSize  = 24
	healthCheckLimit = 2 * time.Second
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Products   *service.ProductService
	Orders     *service.OrderService
	Blog       *service.BlogService
	Promotions *service.PromotionService
	Search     *service.SearchService
	Services   *service.ServiceCatalogService
	Carts      cart.Store
	Catalog    *catalog.Loader
	Auth       *auth.Manager
	Log        *zap.Logger
	PageSize   int
	Checks     map[string]HealthCheck
}

type Server struct {
	engine   *gin.Engine
	log      *zap.Logger
	products *service.ProductService
	orders   *service.OrderService
	blog     *service.BlogService
	promos   *service.PromotionService
	search   *service.SearchService
	services *service.ServiceCatalogService
	carts    cart.Store
	catalog  *catalog.Loader
	auth     *auth.Manager
	pageSize int
	checks   map[string]HealthCheck
}

func NewServer(d Deps) *Server {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	r := gin.New()
	r.Use(logging.Middleware(log), logging.Recovery(log))
	s := &Server{
		engine:   r,
		log:      log,
		products: d.Products,
		orders:   d.Orders,
		blog:     d.Blog,
		promos:   d.Promotions,
		search:   d.Search,
		services: d.Services,
		carts:    d.Carts,
		catalog:  d.Catalog,
		auth:     d.Auth,
		pageSize: pageSize,
		checks:   d.Checks,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET(":id", s.getProduct)
		products.GET(":id/related", s.relatedProducts)
		v1.GET("/catalog/options", s.catalogOptions)

		carts := v1.Group("/cart")
		carts.GET("", s.getCart)
		carts.DELETE("", s.clearCart)
		carts.POST("/items", s.addCartItem)
		carts.PUT("/items/:product_id/:variant_id", s.updateCartItem)
		carts.DELETE("/items/:product_id/:variant_id", s.removeCartItem)

		v1.POST("/checkout", s.checkout)
		v1.GET("/orders/:id", s.getOrder)

		blog := v1.Group("/blog")
		blog.GET("", s.listPosts)
		blog.GET("/categories", s.blogCategories)
		blog.GET("/:slug", s.getPost)
		blog.GET("/:slug/related", s.relatedPosts)

		v1.GET("/promotions/:location", s.getPromotion)
		v1.GET("/search", s.searchSite)

		services := v1.Group("/services")
		services.GET("", s.servicesMenu)
		services.GET("/items", s.listServices)
		services.GET("/items/:slug", s.getService)

		admin := v1.Group("/admin", s.auth.Middleware(), auth.RequireRole(auth.RoleAdmin))
		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:id", s.updateProduct)
		admin.DELETE("/products/:id", s.deleteProduct)
		admin.POST("/orders/:id/cancel", s.cancelOrder)
		admin.POST("/blog", s.createPost)
		admin.PUT("/blog/:slug", s.updatePost)
		admin.DELETE("/blog/:slug", s.deletePost)
		admin.PUT("/promotions/:location", s.upsertPromotion)
		admin.GET("/services", s.adminServices)
		admin.PUT("/services/order", s.reorderServices)
		admin.POST("/services/categories", s.createServiceCategory)
		admin.PUT("/services/categories/:id", s.updateServiceCategory)
		admin.DELETE("/services/categories/:id", s.deleteServiceCategory)
		admin.POST("/services/subcategories", s.createServiceSubcategory)
		admin.PUT("/services/subcategories/:id", s.updateServiceSubcategory)
		admin.DELETE("/services/subcategories/:id", s.deleteServiceSubcategory)
		admin.POST("/services/items", s.createServiceItem)
		admin.PUT("/services/items/:id", s.updateServiceItem)
		admin.DELETE("/services/items/:id", s.deleteServiceItem)
	}
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /healthz [get]
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckLimit)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := gin.H{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if cat := s.catalog.Snapshot(); cat != nil {
		body["catalog_version"] = cat.Version()
		body["products"] = cat.Len()
	}
	c.JSON(status, body)
}

// session returns the shopper's cart session, issuing a new cookie when the
// request carries none or a malformed one.
func (s *Server) session(c *gin.Context) string {
	if id, ok := existingSession(c); ok {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(sessionMaxAge.Seconds()), "/", "", false, true)
	return id
}

// existingSession reads the session cookie without issuing one.
func existingSession(c *gin.Context) (string, bool) {
	v, err := c.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, catalog.ErrInvalidProduct):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrNotEnoughStock),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
