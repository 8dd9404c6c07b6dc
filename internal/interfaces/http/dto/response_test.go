package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "42"})
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 45, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.EqualValues(t, 45, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewSuccessResponseWithMetaDefaultsPageSize(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{}, 100, 1, 0)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Equal(t, 5, resp.Meta.TotalPages)
}

func TestNewErrorResponseNormalizesDomainCodes(t *testing.T) {
	resp := NewErrorResponse("NEGATIVE_STOCK", "stock would go negative")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNegativeStock, resp.Error.Code)
	assert.Equal(t, "stock would go negative", resp.Error.Message)
	assert.False(t, resp.Error.Timestamp.IsZero())
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "no such document", "req-123")
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "supplier_name", Message: "supplier_name is required"},
	}
	resp := NewValidationErrorResponse("validation failed", "req-9", details)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-9", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeResourceInUse, http.StatusConflict},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeNegativeStock, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_NEVER_HEARD_OF_IT", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domain string
		wire   string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"DUPLICATE_SKU", ErrCodeAlreadyExists},
		{"DOCUMENT_ALREADY_DONE", ErrCodeConflict},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"PRODUCT_IN_USE", ErrCodeResourceInUse},
		{"EMPTY_DOCUMENT", ErrCodeInvalidState},
		{"NEGATIVE_STOCK", ErrCodeNegativeStock},
		{"INVALID_QUANTITY", ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wire, NormalizeErrorCode(tt.domain), tt.domain)
	}

	// already normalized and unknown codes pass through untouched
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
}
