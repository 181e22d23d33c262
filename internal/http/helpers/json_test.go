package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadObject(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
	}{
		{"object", `{"number":5}`, ""},
		{"array", `[1,2]`, "BAD_REQUEST"},
		{"scalar", `"x"`, "BAD_REQUEST"},
		{"broken", `{"number":`, "INVALID_JSON"},
		{"empty", ``, "INVALID_JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/tables", strings.NewReader(tc.body))
			obj, appErr := ReadObject(httptest.NewRecorder(), r)
			if tc.code == "" {
				require.Nil(t, appErr)
				assert.Equal(t, float64(5), obj["number"])
				return
			}
			require.NotNil(t, appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestReadObject_TooLarge(t *testing.T) {
	big := `{"x":"` + strings.Repeat("a", MaxBodySize) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/api/tables", strings.NewReader(big))
	_, appErr := ReadObject(httptest.NewRecorder(), r)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.HTTPStatus)
}
