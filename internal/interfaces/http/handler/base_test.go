package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warehouse/backend/internal/domain/shared"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
	"github.com/warehouse/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	base := &BaseHandler{}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/boom", func(c *gin.Context) {
		base.HandleError(c, err)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "req-test-1")
	engine.ServeHTTP(rec, req)

	var body dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleErrorMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wireCode string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"already done", shared.NewDomainError("DOCUMENT_ALREADY_DONE", "Document is already done"), http.StatusConflict, dto.ErrCodeConflict},
		{"negative stock", shared.ErrNegativeStock, http.StatusUnprocessableEntity, dto.ErrCodeNegativeStock},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"bad quantity", shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := performError(t, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wireCode, body.Error.Code)
			assert.Equal(t, "req-test-1", body.Error.RequestID)
		})
	}
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	rec, body := performError(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrCodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, "pq:", "driver errors must not leak to clients")
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDEchoedWhenProvided(t *testing.T) {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied", rec.Header().Get("X-Request-ID"))
}
