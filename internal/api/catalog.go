package api

import (
	"net/http"
	"strings"

	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": cat,
	})
}

type productPagination struct {
	utils.Pagination
	TotalProducts int `json:"totalProducts"`
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errInvalidPayload
	}
	return &d, nil
}

func (h *Handler) ListProducts(c *gin.Context) {
	minPrice, err := queryDecimal(c, "minPrice")
	if err != nil {
		respondError(c, err)
		return
	}
	maxPrice, err := queryDecimal(c, "maxPrice")
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.products.List(c.Request.Context(), product.ListOptions{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": res.Items,
		"pagination": productPagination{
			Pagination:    utils.NewPagination(res.Page, res.Limit, res.Total),
			TotalProducts: res.Total,
		},
	})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

type createProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	StockQuantity *int             `json:"stock_quantity" binding:"required,gte=0"`
	CategoryID    uint             `json:"category_id" binding:"required"`
	ImageURL      string           `json:"image_url"`
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.products.Create(c.Request.Context(), product.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		StockQuantity: *req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": p,
	})
}

type updateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" binding:"omitempty,gte=0"`
	CategoryID    *uint            `json:"category_id"`
	ImageURL      *string          `json:"image_url"`
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, product.UpdateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": p,
	})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *Handler) TopSelling(c *gin.Context) {
	items, err := h.products.TopSelling(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Top selling products retrieved successfully",
		"products": items,
	})
}
