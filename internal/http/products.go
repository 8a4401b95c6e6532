package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"suncoast/internal/catalog"
	"suncoast/internal/domain"
)

// @Summary Browse products
// @Description Filters, sorts and paginates the catalog. Repeat category, brand and badge to select several values.
// @Tags products
// @Produce json
// @Param q query string false "Search name, brand, description and category"
// @Param category query []string false "Categories" collectionFormat(multi)
// @Param brand query []string false "Brands" collectionFormat(multi)
// @Param badge query []string false "Badges" collectionFormat(multi)
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Param sort query string false "name-asc, name-desc, price-asc, price-desc or newest"
// @Param page query int false "Page number, from 1"
// @Param page_size query string false "Page size, or all"
// @Success 200 {object} catalog.PageResult
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	criteria := catalog.Criteria{
		Search:     c.Query("q"),
		Categories: queryValues(c.QueryArray("category")),
		Brands:     queryValues(c.QueryArray("brand")),
		Badges:     queryValues(c.QueryArray("badge")),
		SortBy:     catalog.SortOption(c.Query("sort")),
	}

	lo, hasMin, err := queryPrice(c, "min_price")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hi, hasMax, err := queryPrice(c, "max_price")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if hasMin || hasMax {
		opts, err := s.products.Options(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		r := opts.PriceRange
		if hasMin {
			r.Min = lo
		}
		if hasMax {
			r.Max = hi
		}
		criteria.PriceRange = &r
	}

	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size := s.pageSize
	switch v := c.Query("page_size"); {
	case v == "":
	case strings.EqualFold(v, "all"):
		size = catalog.AllPages
	default:
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
			return
		}
		size = n
	}

	res, err := s.products.Browse(c, criteria, catalog.Page{Number: page, Size: size})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.products.Product(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Related products
// @Description Other products in the same category.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Param limit query int false "Maximum results" default(4)
// @Success 200 {array} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id}/related [get]
func (s *Server) relatedProducts(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	list, err := s.products.Related(c, id, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Filter options
// @Description Categories, brands, badges and price bounds of the full catalog.
// @Tags products
// @Produce json
// @Success 200 {object} catalog.Options
// @Router /catalog/options [get]
func (s *Server) catalogOptions(c *gin.Context) {
	opts, err := s.products.Options(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// @Summary Create product
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body domain.Product true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.products.Create(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product
// @Description Replaces the product, variants included.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param input body domain.Product true "Product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.ID = id
	p, err := s.products.Update(c, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.products.Delete(c, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// queryValues takes repeated parameters as they are. Commas are part of a
// value since category names may contain them.
func queryValues(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func queryPrice(c *gin.Context, key string) (decimal.Decimal, bool, error) {
	v := c.Query(key)
	if v == "" {
		return decimal.Zero, false, nil
	}
	d, err := domain.ParsePrice(v)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid %s", key)
	}
	return d, true, nil
}
