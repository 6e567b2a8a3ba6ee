package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/application/receipt"
	appsale "github.com/pos/backend/internal/application/sale"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets a till retry a commit without selling twice
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 100

// SaleCommitter commits carts
type SaleCommitter interface {
	CommitWithKey(ctx context.Context, key string, in appsale.CommitInput) (*appsale.CommitResult, error)
}

// SaleReader answers sale queries
type SaleReader interface {
	GetSale(ctx context.Context, id int64) (*appsale.SaleResponse, error)
	ListSales(ctx context.Context, filter shared.Filter) (*shared.Paginated[appsale.SaleListItemResponse], error)
}

// ReceiptRenderer renders receipts of committed sales
type ReceiptRenderer interface {
	Render(ctx context.Context, saleID int64) (*receipt.DocumentHandle, error)
}

// CartLineRequest is one product and quantity in the cart
type CartLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// CommitSaleRequest is the cart posted by the till. The vendor is the
// signed-in user, never a request field.
type CommitSaleRequest struct {
	ClientID *int64            `json:"client_id" binding:"omitempty,gt=0"`
	Lines    []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	committer SaleCommitter
	reader    SaleReader
	receipts  ReceiptRenderer
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(committer SaleCommitter, reader SaleReader, receipts ReceiptRenderer) *SaleHandler {
	return &SaleHandler{committer: committer, reader: reader, receipts: receipts}
}

// Commit godoc
// @Summary      Commit a sale
// @Description  Record the cart as a sale, decrement stock and return the sale id. All or nothing.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Replays the first result for a repeated key"
// @Param        request body CommitSaleRequest true "Cart"
// @Success      201 {object} dto.Response{data=appsale.CommitResult}
// @Success      200 {object} dto.Response{data=appsale.CommitResult} "Replayed commit"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales [post]
func (h *SaleHandler) Commit(c *gin.Context) {
	user := middleware.GetIdentity(c)
	if user == nil {
		h.Error(c, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req CommitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	lines := make([]sale.CartLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, sale.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	result, err := h.committer.CommitWithKey(c.Request.Context(), key, appsale.CommitInput{
		Lines:    lines,
		ClientID: req.ClientID,
		Vendor:   user.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		h.Success(c, result)
		return
	}
	c.Header("Location", "/api/v1/sales/"+formatID(result.SaleID))
	h.Created(c, result)
}

// List godoc
// @Summary      List sales
// @Description  Sales with client names, newest first. Walk-in sales show the placeholder name.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_dir query string false "asc or desc" default(desc)
// @Param        search query string false "Vendor or client name"
// @Success      200 {object} dto.Response{data=[]appsale.SaleListItemResponse,meta=dto.Meta}
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	page, err := h.reader.ListSales(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Get godoc
// @Summary      Get a sale
// @Description  A committed sale with its line items in insertion order
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Sale id"
// @Success      200 {object} dto.Response{data=appsale.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	resp, err := h.reader.GetSale(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RenderReceipt godoc
// @Summary      Render a receipt
// @Description  Produce the receipt PDF of a committed sale. Each call writes a new document.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Sale id"
// @Success      200 {object} dto.Response{data=receipt.DocumentHandle}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id}/receipt [post]
func (h *SaleHandler) RenderReceipt(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	handle, err := h.receipts.Render(c.Request.Context(), req.ID)
	if err != nil {
		if handle != nil && printing.RenderErrorCode(err) == printing.ErrCodeViewerFailed {
			// The document exists; only opening it failed
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeReceiptViewer, err.Error(), middleware.GetRequestID(c))
			resp.Data = handle
			c.JSON(http.StatusInternalServerError, resp)
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, handle)
}
