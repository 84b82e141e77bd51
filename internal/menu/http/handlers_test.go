package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schiefeling-archiv/archiv-backend/internal/menu/domain"
	"github.com/schiefeling-archiv/archiv-backend/internal/menu/repository"
	"github.com/schiefeling-archiv/archiv-backend/internal/menu/service"
)

func newRouter(t *testing.T) (*gin.Engine, *service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewService(repository.NewMemoryRepo())
	r := gin.New()
	Register(r.Group("/api/v1/menu"), svc)
	return r, svc
}

func do(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTreeEndpoint(t *testing.T) {
	r, svc := newRouter(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "1", "Archiv", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "1.1", "Presse", "Newspaper")
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK   bool           `json:"ok"`
		Menu []*domain.Node `json:"menu"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Menu, 1)
	require.Len(t, resp.Menu[0].Children, 1)
	assert.Equal(t, "Presse", resp.Menu[0].Children[0].Title)
}

func TestListEndpoint(t *testing.T) {
	r, svc := newRouter(t)

	_, err := svc.Create(context.Background(), "1", "Archiv", "")
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/v1/menu/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Archiv")
}

func TestCreateEndpoint(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/menu",
		strings.NewReader(`{"id":"2.1","title":"Zensur","icon_name":"Newspaper"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Item domain.MenuItem `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2", resp.Item.ParentID)
	assert.Equal(t, 1, resp.Item.Order)
}

func TestCreateEndpointInvalidBody(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/api/v1/menu", strings.NewReader(`{"title":"ohne id"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/menu", strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	r, svc := newRouter(t)

	item, err := svc.Create(context.Background(), "1", "Archiv", "")
	require.NoError(t, err)

	w := do(r, http.MethodDelete, "/api/v1/menu/"+item.DocID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/menu/"+item.DocID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
