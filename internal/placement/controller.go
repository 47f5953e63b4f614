package placement

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/shared/middleware"
	"popupzone/internal/shared/utils/dates"
	"popupzone/internal/shared/utils/pagination"
	"popupzone/internal/shared/utils/response"
	"popupzone/internal/shared/utils/validation"
	"popupzone/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service    Service
	validator  *validator.Validate
	retryAfter time.Duration
}

func NewController(service Service) *Controller {
	return &Controller{
		service:    service,
		validator:  validation.New(),
		retryAfter: time.Second,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSchedulingConflict), errors.Is(err, ErrAlreadyDecided):
		return http.StatusConflict
	case errors.Is(err, ErrCellUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrLockTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Conflicts carry the colliding occupancy
// and lock timeouts a Retry-After hint.
func (c *Controller) fail(ctx *gin.Context, message string, err error) {
	code := statusFor(err)

	var details interface{} = err.Error()
	if id, ok := ConflictingID(err); ok {
		details = gin.H{"message": err.Error(), "conflicting_id": id.String()}
	}
	if code == http.StatusServiceUnavailable {
		ctx.Header("Retry-After", strconv.Itoa(int(c.retryAfter.Seconds())))
	}
	if code == http.StatusInternalServerError {
		details = "internal error"
	}

	response.RespondJSON(ctx, "error", code, message, nil, details)
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Describe(err))
		return false
	}
	return true
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid id", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := middleware.CurrentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func bindPage(ctx *gin.Context) (pagination.Query, bool) {
	var query pagination.Query
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return query, false
	}
	return query, true
}

//  SELLER

// RequestOccupancy handles POST /occupancies
func (c *Controller) RequestOccupancy(ctx *gin.Context) {
	sellerID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req AllocateRequest
	if !c.bind(ctx, &req) {
		return
	}

	// validated above
	cellID := uuid.MustParse(req.ZoneCellID)
	from, _ := dates.Parse(req.StartDate)
	to, _ := dates.Parse(req.EndDate)

	occ, err := c.service.Allocate(ctx.Request.Context(), AllocateInput{
		SellerID:    sellerID,
		CellID:      cellID,
		Name:        req.Name,
		Description: req.Description,
		From:        from,
		To:          to,
	})
	if err != nil {
		c.fail(ctx, "Failed to request occupancy", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Occupancy requested successfully", NewOccupancyResponse(occ), nil)
}

// GetOccupancy handles GET /occupancies/:id. Sellers only see their own.
func (c *Controller) GetOccupancy(ctx *gin.Context) {
	callerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	occ, err := c.service.GetOccupancy(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, "Failed to get occupancy", err)
		return
	}
	if middleware.CurrentRole(ctx) != users.RoleAdmin && occ.SellerID != callerID {
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupancy retrieved successfully", NewOccupancyResponse(occ), nil)
}

// GetHistory handles GET /occupancies/:id/history
func (c *Controller) GetHistory(ctx *gin.Context) {
	callerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if middleware.CurrentRole(ctx) != users.RoleAdmin {
		occ, err := c.service.GetOccupancy(ctx.Request.Context(), id)
		if err != nil {
			c.fail(ctx, "Failed to get approval history", err)
			return
		}
		if occ.SellerID != callerID {
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			return
		}
	}

	records, err := c.service.History(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, "Failed to get approval history", err)
		return
	}

	items := make([]DecisionResponse, 0, len(records))
	for i := range records {
		items = append(items, NewDecisionResponse(&records[i]))
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Approval history retrieved successfully", items, nil)
}

// ListMyOccupancies handles GET /sellers/me/occupancies
func (c *Controller) ListMyOccupancies(ctx *gin.Context) {
	sellerID, ok := currentUser(ctx)
	if !ok {
		return
	}
	query, ok := bindPage(ctx)
	if !ok {
		return
	}

	page, err := c.service.ListSellerOccupancies(ctx.Request.Context(), sellerID, query)
	if err != nil {
		c.fail(ctx, "Failed to list occupancies", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Occupancies retrieved successfully", page, nil)
}

// GetAvailability handles GET /cells/:id/availability?from=&to=
func (c *Controller) GetAvailability(ctx *gin.Context) {
	cellID, ok := parseID(ctx)
	if !ok {
		return
	}

	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Describe(err))
		return
	}
	from, _ := dates.Parse(query.From)
	to, _ := dates.Parse(query.To)

	availability, err := c.service.GetAvailability(ctx.Request.Context(), cellID, from, to)
	if err != nil {
		c.fail(ctx, "Failed to get availability", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully",
		NewAvailabilityResponse(cellID.String(), from, to, availability), nil)
}

//  ADMIN

// ListPending handles GET /admin/approvals
func (c *Controller) ListPending(ctx *gin.Context) {
	query, ok := bindPage(ctx)
	if !ok {
		return
	}

	page, err := c.service.ListPending(ctx.Request.Context(), query)
	if err != nil {
		c.fail(ctx, "Failed to list pending approvals", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Pending approvals retrieved successfully", page, nil)
}

// Approve handles POST /admin/approvals/:id/approve
func (c *Controller) Approve(ctx *gin.Context) {
	var req ApproveRequest
	if ctx.Request.ContentLength != 0 && !c.bind(ctx, &req) {
		return
	}
	c.decide(ctx, approvals.DecisionApprove, req.Reason, "Occupancy approved successfully")
}

// Reject handles POST /admin/approvals/:id/reject
func (c *Controller) Reject(ctx *gin.Context) {
	var req RejectRequest
	if !c.bind(ctx, &req) {
		return
	}
	c.decide(ctx, approvals.DecisionReject, req.Reason, "Occupancy rejected successfully")
}

func (c *Controller) decide(ctx *gin.Context, decision approvals.Decision, reason, message string) {
	adminID, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	record, err := c.service.Decide(ctx.Request.Context(), DecideInput{
		OccupancyID: id,
		AdminID:     adminID,
		Decision:    decision,
		Reason:      reason,
	})
	if err != nil {
		c.fail(ctx, "Failed to process decision", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, NewDecisionResponse(record), nil)
}
