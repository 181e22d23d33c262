package resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/resource"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/store/adapters/memory"
)

func newController(connect store.Connector) *ResourceController {
	return NewResourceController(resource.NewService(store.NewConnectionCacheWith(connect)))
}

func TestCreateThenList(t *testing.T) {
	db := memory.New()
	c := newController(func(context.Context) (store.Handle, error) { return db, nil })
	def, ok := resource.Lookup("tables")
	require.True(t, ok)

	rec := httptest.NewRecorder()
	c.Create(def)(rec, httptest.NewRequest(http.MethodPost, "/api/tables", strings.NewReader(`{"number":5,"capacity":4}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, float64(5), created["number"])
	assert.Equal(t, float64(4), created["capacity"])
	assert.NotEmpty(t, created["_id"])

	rec = httptest.NewRecorder()
	c.List(def)(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created["_id"], list[0]["_id"])
}

func TestList_EmptyIsArray(t *testing.T) {
	c := newController(func(context.Context) (store.Handle, error) { return memory.New(), nil })
	def, _ := resource.Lookup("reviews")

	rec := httptest.NewRecorder()
	c.List(def)(rec, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestStoreFailure(t *testing.T) {
	c := newController(func(context.Context) (store.Handle, error) {
		return nil, errors.New("no reachable servers")
	})
	def, _ := resource.Lookup("branches")

	rec := httptest.NewRecorder()
	c.List(def)(rec, httptest.NewRequest(http.MethodGet, "/api/branches", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "no reachable servers")
}

func TestCreate_RejectsNonObject(t *testing.T) {
	c := newController(func(context.Context) (store.Handle, error) { return memory.New(), nil })
	def, _ := resource.Lookup("branches")

	rec := httptest.NewRecorder()
	c.Create(def)(rec, httptest.NewRequest(http.MethodPost, "/api/branches", strings.NewReader(`[1,2]`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
