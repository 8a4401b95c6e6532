package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"suncoast/internal/domain"
)

type serviceCategoryReq struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active"`
}

type serviceSubcategoryReq struct {
	CategoryID   int64  `json:"category_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	Active       *bool  `json:"active"`
}

type serviceItemReq struct {
	CategoryID    int64            `json:"category_id"`
	SubcategoryID int64            `json:"subcategory_id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	PriceText     string           `json:"price_text"`
	Duration      string           `json:"duration"`
	Depth         string           `json:"depth"`
	Includes      []string         `json:"includes"`
	ServiceType   string           `json:"service_type"`
	DisplayOrder  int              `json:"display_order"`
	Active        *bool            `json:"active"`
	Featured      bool             `json:"featured"`
}

type reorderReq struct {
	Kind      domain.ServiceKind       `json:"kind"`
	Positions []domain.DisplayPosition `json:"positions"`
}

// active defaults new rows to visible.
func active(v *bool) bool {
	return v == nil || *v
}

func (r serviceCategoryReq) category() domain.ServiceCategory {
	return domain.ServiceCategory{
		Name:         r.Name,
		Slug:         r.Slug,
		Icon:         r.Icon,
		Description:  r.Description,
		DisplayOrder: r.DisplayOrder,
		Active:       active(r.Active),
	}
}

func (r serviceSubcategoryReq) subcategory() domain.ServiceSubcategory {
	return domain.ServiceSubcategory{
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		DisplayOrder: r.DisplayOrder,
		Active:       active(r.Active),
	}
}

func (r serviceItemReq) item() domain.ServiceItem {
	return domain.ServiceItem{
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Name:          r.Name,
		Slug:          r.Slug,
		Description:   r.Description,
		Price:         r.Price,
		PriceText:     r.PriceText,
		Duration:      r.Duration,
		Depth:         r.Depth,
		Includes:      r.Includes,
		ServiceType:   r.ServiceType,
		DisplayOrder:  r.DisplayOrder,
		Active:        active(r.Active),
		Featured:      r.Featured,
	}
}

// @Summary Services menu
// @Description Visible categories in display order, each with its services and subcategories.
// @Tags services
// @Produce json
// @Success 200 {array} service.MenuCategory
// @Router /services [get]
func (s *Server) servicesMenu(c *gin.Context) {
	menu, err := s.services.Menu(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// @Summary List services
// @Tags services
// @Produce json
// @Param category query string false "Category slug"
// @Param featured query bool false "Only featured services"
// @Success 200 {array} domain.ServiceItem
// @Failure 404 {object} map[string]string
// @Router /services/items [get]
func (s *Server) listServices(c *gin.Context) {
	featured := c.Query("featured") == "true"
	items, err := s.services.Services(c, c.Query("category"), featured)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Get service
// @Tags services
// @Produce json
// @Param slug path string true "Service slug"
// @Success 200 {object} domain.ServiceItem
// @Failure 404 {object} map[string]string
// @Router /services/items/{slug} [get]
func (s *Server) getService(c *gin.Context) {
	it, err := s.services.ServiceBySlug(c, c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// @Summary Services admin listing
// @Description Every category, subcategory and service, hidden ones included.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.AdminListing
// @Router /admin/services [get]
func (s *Server) adminServices(c *gin.Context) {
	all, err := s.services.Listing(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

// @Summary Create service category
// @Description The slug is derived from the name when omitted.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body serviceCategoryReq true "Category"
// @Success 201 {object} domain.ServiceCategory
// @Failure 400 {object} map[string]string
// @Router /admin/services/categories [post]
func (s *Server) createServiceCategory(c *gin.Context) {
	var req serviceCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cat, err := s.services.CreateCategory(c, req.category())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// @Summary Update service category
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param input body serviceCategoryReq true "Category"
// @Success 200 {object} domain.ServiceCategory
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/services/categories/{id} [put]
func (s *Server) updateServiceCategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req serviceCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cat, err := s.services.UpdateCategory(c, id, req.category())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// @Summary Delete service category
// @Description Also deletes its subcategories and services.
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/services/categories/{id} [delete]
func (s *Server) deleteServiceCategory(c *gin.Context) {
	s.deleteByID(c, s.services.DeleteCategory)
}

// @Summary Create service subcategory
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body serviceSubcategoryReq true "Subcategory"
// @Success 201 {object} domain.ServiceSubcategory
// @Failure 400 {object} map[string]string
// @Router /admin/services/subcategories [post]
func (s *Server) createServiceSubcategory(c *gin.Context) {
	var req serviceSubcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sc, err := s.services.CreateSubcategory(c, req.subcategory())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

// @Summary Update service subcategory
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Subcategory ID"
// @Param input body serviceSubcategoryReq true "Subcategory"
// @Success 200 {object} domain.ServiceSubcategory
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/services/subcategories/{id} [put]
func (s *Server) updateServiceSubcategory(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req serviceSubcategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sc, err := s.services.UpdateSubcategory(c, id, req.subcategory())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sc)
}

// @Summary Delete service subcategory
// @Description Its services move up to the parent category.
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Subcategory ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/services/subcategories/{id} [delete]
func (s *Server) deleteServiceSubcategory(c *gin.Context) {
	s.deleteByID(c, s.services.DeleteSubcategory)
}

// @Summary Create service
// @Description Give either price or price_text.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body serviceItemReq true "Service"
// @Success 201 {object} domain.ServiceItem
// @Failure 400 {object} map[string]string
// @Router /admin/services/items [post]
func (s *Server) createServiceItem(c *gin.Context) {
	var req serviceItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	it, err := s.services.CreateService(c, req.item())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// @Summary Update service
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param input body serviceItemReq true "Service"
// @Success 200 {object} domain.ServiceItem
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/services/items/{id} [put]
func (s *Server) updateServiceItem(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req serviceItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	it, err := s.services.UpdateService(c, id, req.item())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// @Summary Delete service
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/services/items/{id} [delete]
func (s *Server) deleteServiceItem(c *gin.Context) {
	s.deleteByID(c, s.services.DeleteService)
}

// @Summary Reorder services
// @Description Sets display_order on rows of one kind: categories, subcategories or services. Nothing changes if any ID is unknown.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Param input body reorderReq true "Positions"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/services/order [put]
func (s *Server) reorderServices(c *gin.Context) {
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.services.Reorder(c, req.Kind, req.Positions); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteByID(c *gin.Context, del func(ctx context.Context, id int64) error) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := del(c, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
