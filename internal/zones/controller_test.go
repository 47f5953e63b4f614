package zones_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"popupzone/internal/shared/middleware"
	"popupzone/internal/storage/memory"
	"popupzone/internal/users"
	"popupzone/internal/zones"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, c.GetHeader("X-User-ID"))
		c.Set(middleware.ContextRole, c.GetHeader("X-User-Role"))
		c.Next()
	}
	controller := zones.NewController(zones.NewService(memory.NewStore().Zones()))
	zones.SetupZoneRoutes(r.Group("/api/v1"), controller, auth)
	return r
}

func call(t *testing.T, r *gin.Engine, method, path string, role users.Role, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", string(role))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestZoneRoutes(t *testing.T) {
	r := newRouter()

	code, out := call(t, r, http.MethodPost, "/api/v1/admin/zone-areas", users.RoleAdmin, gin.H{"name": "Harbour"})
	require.Equal(t, http.StatusCreated, code)
	var area zones.ZoneArea
	require.NoError(t, json.Unmarshal(out["data"], &area))

	code, _ = call(t, r, http.MethodPost, "/api/v1/admin/zone-areas", users.RoleSeller, gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, r, http.MethodPost, "/api/v1/admin/zone-areas", users.RoleAdmin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, r, http.MethodPatch, "/api/v1/admin/zone-areas/"+area.ID.String()+"/status", users.RoleAdmin, gin.H{"status": "UNAVAILABLE"})
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, http.MethodPost, "/api/v1/zone-cells", users.RoleSeller, gin.H{"zone_area_id": area.ID.String(), "label": "H-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, r, http.MethodGet, "/api/v1/zone-cells/"+uuid.NewString(), users.RoleSeller, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, r, http.MethodPost, "/api/v1/admin/windows", users.RoleAdmin, gin.H{
		"zone_area_id": area.ID.String(), "zone_cell_id": uuid.NewString(), "start_date": "2024-07-01", "end_date": "2024-07-02",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}
