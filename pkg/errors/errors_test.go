package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		status   int
		check    func(error) bool
	}{
		{"invalid argument", NewInvalidArgumentError("bad"), ErrorTypeInvalidArgument, http.StatusBadRequest, IsInvalidArgument},
		{"invalid state", NewInvalidStateError("nope"), ErrorTypeInvalidState, http.StatusConflict, IsInvalidState},
		{"duplicate id", NewDuplicateIDError("node", "abc"), ErrorTypeDuplicateID, http.StatusConflict, IsDuplicateID},
		{"referential integrity", NewReferentialIntegrityError("dangling"), ErrorTypeReferentialIntegrity, http.StatusUnprocessableEntity, IsReferentialIntegrity},
		{"not found", NewNotFoundError("mind map"), ErrorTypeNotFound, http.StatusNotFound, IsNotFound},
		{"conflict", NewConflictError("stale"), ErrorTypeConflict, http.StatusConflict, IsConflict},
		{"unauthorized", NewUnauthorizedError(""), ErrorTypeUnauthorized, http.StatusUnauthorized, IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.StackTrace)
			assert.True(t, tt.check(tt.err))

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, tt.check(wrapped), "type must survive wrapping")
		})
	}
}

func TestDuplicateIDCarriesID(t *testing.T) {
	err := NewDuplicateIDError("link", "l-1")

	assert.Contains(t, err.Error(), "link with id l-1 already exists")
	assert.Equal(t, "l-1", err.Details["id"])
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	appErr := NewNotFoundError("node")
	wrapped := Wrap(appErr, "loading map")
	assert.True(t, IsNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "loading map: node not found")

	plain := Wrap(errors.New("boom"), "saving")
	assert.True(t, IsType(plain, ErrorTypeInternal))
	assert.ErrorContains(t, plain, "boom")
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error uses its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/maps/x", nil)

		handler.Handle(rec, req, NewNotFoundError("mind map"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, string(ErrorTypeNotFound), body.Type)
		assert.Equal(t, "mind map not found", body.Message)
		assert.NotContains(t, body.Details, "stack_trace")
	})

	t.Run("plain error hides message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/maps", nil)

		handler.Handle(rec, req, errors.New("secret detail"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret detail")
	})

	t.Run("panic middleware", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)

		handler.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		})).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
