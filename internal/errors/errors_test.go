package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	notFound := NewNotFoundError("Data not found", nil)
	wrapped := fmt.Errorf("get: %w", notFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, ErrorTypeNotFound, KindOf(wrapped))
	assert.Equal(t, ErrorTypeInternal, KindOf(stderrors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestDetail(t *testing.T) {
	cause := stderrors.New("connection refused")

	assert.Equal(t, "failed to list: connection refused", Detail(NewDatabaseError("failed to list", cause)))
	assert.Equal(t, "bad timestamp", Detail(NewValidationError("bad timestamp", cause)))
	assert.Equal(t, "plain", Detail(stderrors.New("plain")))
}

func TestAPIError_Chaining(t *testing.T) {
	err := NewValidationError("Data created wrong", nil).WithCode(http.StatusInternalServerError).WithRequestID("req_1")

	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, "req_1", err.RequestID)
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "validation: Data created wrong", err.Error())
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewDatabaseError("failed", cause)
	assert.True(t, stderrors.Is(err, cause))
}
