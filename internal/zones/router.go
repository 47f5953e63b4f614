package zones

import (
	"popupzone/internal/shared/middleware"
	"popupzone/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupZoneRoutes configures zone administration and cell registration routes.
// auth authenticates the caller.
func SetupZoneRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	// Zone areas (admin)
	areas := rg.Group("/admin/zone-areas")
	areas.Use(auth, middleware.RequireAdmin())
	{
		areas.POST("", controller.CreateArea)                   // POST /api/v1/admin/zone-areas
		areas.GET("", controller.ListAreas)                     // GET /api/v1/admin/zone-areas
		areas.GET("/:id", controller.GetArea)                   // GET /api/v1/admin/zone-areas/:id
		areas.PATCH("/:id/status", controller.ChangeAreaStatus) // PATCH /api/v1/admin/zone-areas/:id/status
		areas.GET("/:id/cells", controller.ListCellsByArea)     // GET /api/v1/admin/zone-areas/:id/cells?page=0&size=20
	}

	// Zone cells (admin)
	adminCells := rg.Group("/admin/zone-cells")
	adminCells.Use(auth, middleware.RequireAdmin())
	{
		adminCells.PATCH("/:id/status", controller.ChangeCellStatus) // PATCH /api/v1/admin/zone-cells/:id/status
		adminCells.GET("/:id/windows", controller.ListWindows)       // GET /api/v1/admin/zone-cells/:id/windows
	}

	// Availability windows (admin)
	windows := rg.Group("/admin/windows")
	windows.Use(auth, middleware.RequireAdmin())
	{
		windows.POST("", controller.AddWindow)          // POST /api/v1/admin/windows
		windows.DELETE("/:id", controller.RemoveWindow) // DELETE /api/v1/admin/windows/:id
	}

	// Cell registration by owners
	cells := rg.Group("/zone-cells")
	cells.Use(auth, middleware.RequireRoles(string(users.RoleSeller), string(users.RoleAdmin)))
	{
		cells.POST("", controller.CreateCell)    // POST /api/v1/zone-cells
		cells.GET("/me", controller.ListMyCells) // GET /api/v1/zone-cells/me
		cells.GET("/:id", controller.GetCell)    // GET /api/v1/zone-cells/:id
	}
}
