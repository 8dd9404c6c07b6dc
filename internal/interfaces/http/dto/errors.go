package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeResourceInUse is used when deleting a resource that is referenced
	ErrCodeResourceInUse = "ERR_RESOURCE_IN_USE"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeNegativeStock is used when an operation would drive stock negative
	ErrCodeNegativeStock = "ERR_NEGATIVE_STOCK"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeValidationRange:  http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeResourceInUse:       http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeNegativeStock:     http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// ERR_* wire codes. Domain packages raise codes in their own vocabulary;
// the HTTP layer folds them into categories for status code selection.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"LINE_NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS":     ErrCodeAlreadyExists,
	"DUPLICATE_SKU":      ErrCodeAlreadyExists,
	"DUPLICATE_CODE":     ErrCodeAlreadyExists,
	"DUPLICATE_LOCATION": ErrCodeAlreadyExists,
	"DUPLICATE_LINE":     ErrCodeAlreadyExists,

	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"DOCUMENT_ALREADY_DONE": ErrCodeConflict,

	"PRODUCT_IN_USE":  ErrCodeResourceInUse,
	"LOCATION_IN_USE": ErrCodeResourceInUse,

	"INVALID_STATE":             ErrCodeInvalidState,
	"INVALID_STATUS_TRANSITION": ErrCodeInvalidState,
	"DOCUMENT_NOT_DRAFT":        ErrCodeInvalidState,
	"EMPTY_DOCUMENT":            ErrCodeInvalidState,

	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"NEGATIVE_STOCK":     ErrCodeNegativeStock,
	"UNKNOWN_PRODUCT":    ErrCodeBusinessRule,

	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_SKU":           ErrCodeInvalidInput,
	"INVALID_NAME":          ErrCodeInvalidInput,
	"INVALID_CODE":          ErrCodeInvalidInput,
	"INVALID_UNIT_COST":     ErrCodeInvalidInput,
	"INVALID_UNIT_PRICE":    ErrCodeInvalidInput,
	"INVALID_COST":          ErrCodeInvalidInput,
	"INVALID_PRICE":         ErrCodeInvalidInput,
	"INVALID_REORDER_LEVEL": ErrCodeInvalidInput,
	"INVALID_QUANTITY":      ErrCodeInvalidInput,
	"INVALID_DELTA":         ErrCodeInvalidInput,
	"INVALID_SUPPLIER":      ErrCodeInvalidInput,
	"INVALID_CUSTOMER":      ErrCodeInvalidInput,
	"INVALID_LOCATION":      ErrCodeInvalidInput,
	"INVALID_WAREHOUSE":     ErrCodeInvalidInput,
	"INVALID_PRODUCT":       ErrCodeInvalidInput,
	"SAME_LOCATION":         ErrCodeInvalidInput,
	"INVALID_NUMBER":        ErrCodeInvalidInput,
	"INVALID_DOCUMENT_TYPE": ErrCodeInvalidInput,
	"INVALID_STATUS":        ErrCodeInvalidInput,
	"INVALID_KIND":          ErrCodeInvalidInput,
	"INVALID_SOURCE_TYPE":   ErrCodeInvalidInput,
	"INVALID_SOURCE_ID":     ErrCodeInvalidInput,
	"INVALID_RANGE":         ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the wire format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
