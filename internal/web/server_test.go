package web

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/filestore"
	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) (*Server, *filestore.Store) {
	t.Helper()
	store, err := filestore.Open(filepath.Join(t.TempDir(), "file.json"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv, err := NewServer(store, nil)
	require.NoError(t, err)
	return srv, store
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// persist creates an object and saves it so it survives the per-request reload.
func persist(t *testing.T, store types.Storage, class string, attrs map[string]any) types.Model {
	t.Helper()
	m, err := types.NewModel(class)
	require.NoError(t, err)
	for k, v := range attrs {
		require.NoError(t, types.Set(m, k, v))
	}
	require.NoError(t, store.New(m))
	require.NoError(t, store.Save())
	return m
}

func TestTextRoutes(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "Hello HBNB!"},
		{"/hbnb", http.StatusOK, "HBNB"},
		{"/c/is_fun", http.StatusOK, "C is fun"},
		{"/c/%3Cb%3E", http.StatusOK, "C &lt;b&gt;"},
		{"/python/", http.StatusOK, "Python is cool"},
		{"/python/rocks_hard", http.StatusOK, "Python rocks hard"},
		{"/number/89", http.StatusOK, "89 is a number"},
		{"/number/abc", http.StatusNotFound, "404 page not found"},
		{"/number/-1", http.StatusNotFound, "404 page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestNumberTemplate(t *testing.T) {
	srv, _ := setupServer(t)

	rec := get(t, srv, "/number_template/7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Number: 7</h1>")

	rec = get(t, srv, "/number_template/seven")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatesSortedByName(t *testing.T) {
	srv, store := setupServer(t)
	persist(t, store, types.ClassState, map[string]any{"name": "Oregon"})
	ca := persist(t, store, types.ClassState, map[string]any{"name": "California"})
	persist(t, store, types.ClassState, map[string]any{"name": "Nevada"})

	rec := get(t, srv, "/states")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<h1>States</h1>")
	assert.Contains(t, body, "<li>"+ca.Base().ID+": <b>California</b></li>")
	c, n, o := strings.Index(body, "California"), strings.Index(body, "Nevada"), strings.Index(body, "Oregon")
	assert.True(t, c < n && n < o, body)
}

func TestStateWithCities(t *testing.T) {
	srv, store := setupServer(t)
	ca := persist(t, store, types.ClassState, map[string]any{"name": "California"})
	nv := persist(t, store, types.ClassState, map[string]any{"name": "Nevada"})
	persist(t, store, types.ClassCity, map[string]any{"name": "San Jose", "state_id": ca.Base().ID})
	persist(t, store, types.ClassCity, map[string]any{"name": "Fremont", "state_id": ca.Base().ID})
	persist(t, store, types.ClassCity, map[string]any{"name": "Reno", "state_id": nv.Base().ID})

	rec := get(t, srv, "/states/"+ca.Base().ID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<h1>State: California</h1>")
	assert.NotContains(t, body, "Reno")
	assert.Less(t, strings.Index(body, "Fremont"), strings.Index(body, "San Jose"))
}

func TestStateNotFound(t *testing.T) {
	srv, _ := setupServer(t)

	rec := get(t, srv, "/states/missing")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Not found!</h1>")
}

func TestReloadAfterRequest(t *testing.T) {
	srv, store := setupServer(t)
	persist(t, store, types.ClassState, map[string]any{"name": "Saved"})

	unsaved, err := types.NewModel(types.ClassState)
	require.NoError(t, err)
	require.NoError(t, types.Set(unsaved, "name", "Unsaved"))
	require.NoError(t, store.New(unsaved))

	rec := get(t, srv, "/states")
	assert.Contains(t, rec.Body.String(), "Unsaved", "the request sees the live store")

	rec = get(t, srv, "/states")
	assert.Contains(t, rec.Body.String(), "Saved")
	assert.NotContains(t, rec.Body.String(), "Unsaved", "unsaved state is dropped after a request")
}
