// Package handler holds the gin handlers of the POS API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// retryAfterSeconds is sent with 503 answers to retryable commit failures
const retryAfterSeconds = 1

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize, totalPages int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize, totalPages))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the status derived from code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// BindingError answers a request that failed binding. Validator errors get
// per-field details; anything else is malformed input.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", middleware.GetRequestID(c), details))
		return
	}
	h.Error(c, dto.ErrCodeInvalidJSON, "Invalid request body")
}

// HandleError converts an application error into a response. Sale errors,
// receipt render errors and domain errors keep their meaning; anything else
// is an opaque 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)
	log := logger.L(c.Request.Context())

	var (
		validationErr *sale.ValidationError
		stockErr      *sale.InsufficientStockError
		persistErr    *sale.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		details := []dto.ValidationDetail{{Field: validationErr.Field, Message: validationErr.Message}}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(validationErr.Error(), requestID, details))
		return

	case errors.As(err, &stockErr):
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInsufficientStock, stockErr.Error(), requestID)
		resp.Error.ProductID = stockErr.ProductID
		c.JSON(http.StatusUnprocessableEntity, resp)
		return

	case errors.As(err, &persistErr):
		if persistErr.Retryable {
			log.Warn("Retryable persistence failure", zap.String("op", persistErr.Op), zap.Error(err))
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
			h.Error(c, dto.ErrCodeUnavailable, "The store is busy, retry the request")
			return
		}
		log.Error("Persistence failure", zap.String("op", persistErr.Op), zap.Error(err))
		h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
		return
	}

	if code := printing.RenderErrorCode(err); code != "" {
		log.Error("Receipt rendering failed", zap.String("code", code), zap.Error(err))
		var renderErr *printing.RenderError
		errors.As(err, &renderErr)
		h.Error(c, dto.NormalizeErrorCode(code), renderErr.Message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// toFilter converts list query parameters
func toFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter.Normalize()
}
