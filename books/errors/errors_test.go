package errors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookErrors "github.com/qolzam/bookcatalog/books/errors"
	"github.com/qolzam/bookcatalog/books/dsql"
)

func TestBookError(t *testing.T) {
	err := bookErrors.NewBookError("TEST_CODE", "Test message", nil)
	assert.Equal(t, "TEST_CODE: Test message", err.Error())

	cause := errors.New("connection refused")
	withCause := bookErrors.NewBookError("DB", "Database error", cause)
	assert.Contains(t, withCause.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(withCause))
}

func TestWrapFilterError_KeepsParserKind(t *testing.T) {
	_, parseErr := dsql.Parse(`genre IN []`)
	require.Error(t, parseErr)

	err := bookErrors.WrapFilterError(parseErr)
	assert.True(t, errors.Is(err, bookErrors.ErrInvalidFilter))
	assert.True(t, errors.Is(err, dsql.ErrEmptyList))

	var perr *dsql.Error
	assert.True(t, errors.As(err, &perr))
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("timeout")
	err := bookErrors.WrapDatabaseError(cause)
	assert.True(t, errors.Is(err, bookErrors.ErrDatabaseOperation))
	assert.True(t, errors.Is(err, cause))
}

func respond(t *testing.T, err error) (int, map[string]interface{}) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return bookErrors.HandleServiceError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", bookErrors.ErrBookNotFound, http.StatusNotFound, bookErrors.CodeBookNotFound},
		{"ownership", bookErrors.ErrBookOwnershipRequired, http.StatusForbidden, bookErrors.CodePermissionDenied},
		{"invalid data", fmt.Errorf("%w: title is required", bookErrors.ErrInvalidBookData), http.StatusBadRequest, bookErrors.CodeValidationFailed},
		{"invalid request", fmt.Errorf("%w: filter is required", bookErrors.ErrInvalidRequest), http.StatusBadRequest, bookErrors.CodeInvalidRequest},
		{"invalid id", fmt.Errorf("%w %q", bookErrors.ErrInvalidID, "abc"), http.StatusBadRequest, bookErrors.CodeInvalidID},
		{"missing user", bookErrors.ErrMissingUserContext, http.StatusUnauthorized, bookErrors.CodeMissingUserContext},
		{"database", bookErrors.WrapDatabaseError(errors.New("down")), http.StatusServiceUnavailable, bookErrors.CodeDatabaseOperation},
		{"bare invalid filter", bookErrors.ErrInvalidFilter, http.StatusBadRequest, bookErrors.CodeInvalidFilter},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, bookErrors.CodeInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respond(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestHandleServiceError_FilterDetails(t *testing.T) {
	_, parseErr := dsql.Parse(`price < 10`)
	require.Error(t, parseErr)

	status, body := respond(t, bookErrors.WrapFilterError(parseErr))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, bookErrors.CodeInvalidFilter, body["code"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "UNKNOWN_FIELD", details["kind"])
	assert.Equal(t, float64(0), details["position"])
	assert.Equal(t, "price", details["field"])
	assert.NotEmpty(t, details["reason"])
}

func TestHandleServiceError_Nil(t *testing.T) {
	assert.NoError(t, bookErrors.HandleServiceError(nil, nil))
}

func TestHandleIDAndUserContextErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/id", func(c *fiber.Ctx) error { return bookErrors.HandleIDError(c, "abc") })
	app.Get("/user", func(c *fiber.Ctx) error { return bookErrors.HandleUserContextError(c, "Invalid user context") })

	cases := []struct {
		path    string
		status  int
		code    string
		details string
	}{
		{"/id", http.StatusBadRequest, bookErrors.CodeInvalidID, `invalid book id "abc"`},
		{"/user", http.StatusUnauthorized, bookErrors.CodeMissingUserContext, "missing user context: Invalid user context"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			var out bookErrors.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, out.Code)
			assert.Equal(t, tc.details, out.Details)
		})
	}
}
