package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/restopos/internal/cms"
	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/resource"
)

func TestStoreError(t *testing.T) {
	appErr := StoreError(fmt.Errorf("store: connect: %w", errors.New("server selection timeout")))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, "STORE_FAILURE", appErr.Code)
	assert.Contains(t, appErr.Detail, "server selection timeout")

	appErr = StoreError(resource.ErrNotObject)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestUpstreamError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"upstream 400 stays 400", &cms.UpstreamError{Status: 400, Message: "name is required"}, 400, "name is required"},
		{"upstream 403 is 500", &cms.UpstreamError{Status: 403, Message: "Forbidden"}, 500, "Forbidden"},
		{"upstream 404 is 500", &cms.UpstreamError{Status: 404, Message: "Not Found"}, 500, "Not Found"},
		{"transport", errors.New("dial tcp: connection refused"), 500, "connection refused"},
		{"not configured", cms.ErrNotConfigured, 503, "cms not configured"},
		{"bad payload", cms.ErrInvalidPayload, 502, "not valid JSON"},
		{"app error passthrough", httperrors.ErrForbidden, 403, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := UpstreamError(tc.err)
			assert.Equal(t, tc.status, appErr.HTTPStatus)
			assert.Contains(t, appErr.Detail, tc.detail)
		})
	}
}
