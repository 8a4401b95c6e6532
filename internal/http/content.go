package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"suncoast/internal/domain"
)

type postReq struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Excerpt   string `json:"excerpt"`
	Body      string `json:"body"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Published bool   `json:"published"`
}

func (r postReq) post() domain.BlogPost {
	return domain.BlogPost{
		Title:     r.Title,
		Author:    r.Author,
		Excerpt:   r.Excerpt,
		Body:      r.Body,
		Category:  r.Category,
		ImageURL:  r.ImageURL,
		Published: r.Published,
	}
}

type promotionReq struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	ButtonText string `json:"button_text"`
	ButtonLink string `json:"button_link"`
	Active     bool   `json:"active"`
}

// @Summary List blog posts
// @Description Published posts, newest first.
// @Tags blog
// @Produce json
// @Param author query string false "Only posts by this author"
// @Param limit query int false "Maximum results, 0 for all"
// @Success 200 {array} domain.BlogPost
// @Router /blog [get]
func (s *Server) listPosts(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	var posts []domain.BlogPost
	if author := c.Query("author"); author != "" {
		posts, err = s.blog.ByAuthor(c, author)
		if limit > 0 && len(posts) > limit {
			posts = posts[:limit]
		}
	} else {
		posts, err = s.blog.List(c, limit)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary Blog categories
// @Tags blog
// @Produce json
// @Success 200 {array} string
// @Router /blog/categories [get]
func (s *Server) blogCategories(c *gin.Context) {
	cats, err := s.blog.Categories(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary Get blog post
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} domain.BlogPost
// @Failure 404 {object} map[string]string
// @Router /blog/{slug} [get]
func (s *Server) getPost(c *gin.Context) {
	p, err := s.blog.BySlug(c, c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Related blog posts
// @Description Ranked by shared author, then shared title keywords.
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Param limit query int false "Maximum results" default(3)
// @Success 200 {array} domain.BlogPost
// @Failure 404 {object} map[string]string
// @Router /blog/{slug}/related [get]
func (s *Server) relatedPosts(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	posts, err := s.blog.Related(c, c.Param("slug"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary Create blog post
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body postReq true "Post"
// @Success 201 {object} domain.BlogPost
// @Failure 400 {object} map[string]string
// @Router /admin/blog [post]
func (s *Server) createPost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.blog.Create(c, req.post())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update blog post
// @Description The slug does not change.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param input body postReq true "Post"
// @Success 200 {object} domain.BlogPost
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/blog/{slug} [put]
func (s *Server) updatePost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.blog.Update(c, c.Param("slug"), req.post())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete blog post
// @Tags admin
// @Security BearerAuth
// @Param slug path string true "Post slug"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/blog/{slug} [delete]
func (s *Server) deletePost(c *gin.Context) {
	if err := s.blog.Delete(c, c.Param("slug")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get promotion
// @Description Active banner for a page location, or null.
// @Tags promotions
// @Produce json
// @Param location path string true "Page location, e.g. home"
// @Success 200 {object} domain.Promotion
// @Router /promotions/{location} [get]
func (s *Server) getPromotion(c *gin.Context) {
	p, err := s.promos.Get(c, c.Param("location"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Set promotion
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param location path string true "Page location"
// @Param input body promotionReq true "Promotion"
// @Success 200 {object} domain.Promotion
// @Failure 400 {object} map[string]string
// @Router /admin/promotions/{location} [put]
func (s *Server) upsertPromotion(c *gin.Context) {
	var req promotionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.promos.Upsert(c, c.Param("location"), domain.Promotion{
		Heading:    req.Heading,
		Subheading: req.Subheading,
		ButtonText: req.ButtonText,
		ButtonLink: req.ButtonLink,
		Active:     req.Active,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Site search
// @Description Up to five results each from products, blog posts, categories and pages. Queries under two characters return nothing.
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Success 200 {object} map[string]any
// @Router /search [get]
func (s *Server) searchSite(c *gin.Context) {
	q := c.Query("q")
	results, err := s.search.Search(c, q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": results})
}
