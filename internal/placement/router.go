package placement

import (
	"popupzone/internal/shared/middleware"
	"popupzone/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupPlacementRoutes configures occupancy request and approval routes.
// auth authenticates the caller, normally middleware.JWTAuthWithConfig.
func SetupPlacementRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	seller := string(users.RoleSeller)
	admin := string(users.RoleAdmin)

	// Occupancy requests
	occupancies := rg.Group("/occupancies")
	occupancies.Use(auth)
	{
		occupancies.POST("", middleware.RequireRole(seller), controller.RequestOccupancy)              // POST /api/v1/occupancies
		occupancies.GET("/:id", middleware.RequireRoles(seller, admin), controller.GetOccupancy)       // GET /api/v1/occupancies/:id
		occupancies.GET("/:id/history", middleware.RequireRoles(seller, admin), controller.GetHistory) // GET /api/v1/occupancies/:id/history
	}

	sellers := rg.Group("/sellers/me")
	sellers.Use(auth, middleware.RequireRole(seller))
	{
		sellers.GET("/occupancies", controller.ListMyOccupancies) // GET /api/v1/sellers/me/occupancies?page=0&size=20
	}

	cells := rg.Group("/cells")
	cells.Use(auth)
	{
		cells.GET("/:id/availability", controller.GetAvailability) // GET /api/v1/cells/:id/availability?from=&to=
	}

	// Approval queue (admin)
	approvals := rg.Group("/admin/approvals")
	approvals.Use(auth, middleware.RequireAdmin())
	{
		approvals.GET("", controller.ListPending)          // GET /api/v1/admin/approvals?page=0&size=20
		approvals.POST("/:id/approve", controller.Approve) // POST /api/v1/admin/approvals/:id/approve
		approvals.POST("/:id/reject", controller.Reject)   // POST /api/v1/admin/approvals/:id/reject
	}
}
