package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when the store is temporarily unable to serve
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeCommitInProgress = "ERR_COMMIT_IN_PROGRESS"
)

// Business rule error codes
const (
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Receipt error codes
const (
	ErrCodeReceiptFailed     = "ERR_RECEIPT_FAILED"
	ErrCodeReceiptTimeout    = "ERR_RECEIPT_TIMEOUT"
	ErrCodeReceiptResource   = "ERR_RECEIPT_RESOURCE"
	ErrCodeReceiptStorage    = "ERR_RECEIPT_STORAGE"
	ErrCodeReceiptViewer     = "ERR_RECEIPT_VIEWER"
	ErrCodeReceiptNoSuchSale = "ERR_RECEIPT_SALE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeCommitInProgress: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	// Receipt errors
	ErrCodeReceiptFailed:     http.StatusInternalServerError,
	ErrCodeReceiptTimeout:    http.StatusGatewayTimeout,
	ErrCodeReceiptResource:   http.StatusInternalServerError,
	ErrCodeReceiptStorage:    http.StatusInternalServerError,
	ErrCodeReceiptViewer:     http.StatusInternalServerError,
	ErrCodeReceiptNoSuchSale: http.StatusNotFound,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain and receipt codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"VALIDATION_ERROR":    ErrCodeValidation,
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"PERSISTENCE_ERROR":   ErrCodeInternal,
	"COMMIT_IN_PROGRESS":  ErrCodeCommitInProgress,

	"RENDER_FAILED":      ErrCodeReceiptFailed,
	"INVALID_HTML":       ErrCodeReceiptFailed,
	"INVALID_PAGE_SIZE":  ErrCodeReceiptFailed,
	"RENDER_TIMEOUT":     ErrCodeReceiptTimeout,
	"RESOURCE_NOT_FOUND": ErrCodeReceiptResource,
	"STORAGE_FAILED":     ErrCodeReceiptStorage,
	"VIEWER_FAILED":      ErrCodeReceiptViewer,
	"SALE_NOT_FOUND":     ErrCodeReceiptNoSuchSale,
}

// NormalizeErrorCode converts a domain code to the API format.
// Unknown codes become ErrCodeInternal.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeInternal
}
