package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// ProductResponse is a product as shown to the till
type ProductResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Stock        int             `json:"stock"`
	Price        decimal.Decimal `json:"price"`
}

// ClientResponse is a client as shown to the till
type ClientResponse struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CatalogHandler serves the lookups a till needs to build a cart
type CatalogHandler struct {
	BaseHandler
	products catalog.ProductCatalog
	parties  partner.PartyDirectory
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products catalog.ProductCatalog, parties partner.PartyDirectory) *CatalogHandler {
	return &CatalogHandler{products: products, parties: parties}
}

// GetProduct godoc
// @Summary      Get a product by id
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product id"
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	p, err := h.products.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(p))
}

// GetProductByCode godoc
// @Summary      Get a product by code
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Product code"
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/code/{code} [get]
func (h *CatalogHandler) GetProductByCode(c *gin.Context) {
	var req dto.CodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	p, err := h.products.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(p))
}

// GetClientByCode godoc
// @Summary      Get a client by DNI/RUC
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Client DNI or RUC"
// @Success      200 {object} dto.Response{data=ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/code/{code} [get]
func (h *CatalogHandler) GetClientByCode(c *gin.Context) {
	var req dto.CodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	client, err := h.parties.ClientByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ClientResponse{
		ID:      client.ID,
		Code:    client.Code,
		Name:    client.Name,
		Phone:   client.Phone,
		Address: client.Address,
	})
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		Stock:        p.Stock,
		Price:        p.Price,
	}
}
