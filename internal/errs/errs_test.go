package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}

func TestNotFoundCustomCode(t *testing.T) {
	code := "PROBLEM_NOT_FOUND"
	err := NewNotFoundError("Problem not found", true, &code)

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, code, err.Code)
	assert.True(t, err.Override)

	defaulted := NewNotFoundError("x", false, nil)
	assert.Equal(t, "NOT_FOUND", defaulted.Code)
}

func TestHTTPErrorIsMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewForbiddenError("nope", false))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestWithMessageCopies(t *testing.T) {
	base := NewBadRequestError("base", false, nil, []FieldError{{Field: "limit", Error: "is required"}}, nil)
	copied := base.WithMessage("changed")

	assert.Equal(t, "base", base.Message)
	assert.Equal(t, "changed", copied.Message)
	assert.Equal(t, base.Errors, copied.Errors)
	assert.Equal(t, base.Code, copied.Code)
}

func TestTooManyRequestsCarriesRetryAction(t *testing.T) {
	err := NewTooManyRequestsError("1s")

	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	require.NotNil(t, err.Action)
	assert.Equal(t, ActionTypeRetry, err.Action.Type)
	assert.Equal(t, "1s", err.Action.Value)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("limit too large"))

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Validation failed: limit too large", err.Message)
}
