package handler

import (
	"net/http"
	"strconv"

	"shop_order_payment/internal/domain/catalog/repository"
	"shop_order_payment/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	repo repository.CatalogRepository
}

func NewCatalogHandler(repo repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// ListProducts 在售商品列表
// @Summary 商品列表
// @Tags Catalog
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	products, total, err := h.repo.ListActiveProducts((page-1)*limit, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "catalog query failed")
		return
	}
	response.Success(c, gin.H{
		"items": products,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ListBranches 可用门店列表
// @Summary 门店列表
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /branches [get]
func (h *CatalogHandler) ListBranches(c *gin.Context) {
	branches, err := h.repo.ListEnabledBranches()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "catalog query failed")
		return
	}
	response.Success(c, branches)
}
