package notifications

import (
	"context"

	"popupzone/pkg/logger"
)

// LoggingHandler writes every consumed event to the structured log. It is
// the default consumer until sellers get real notifications.
type LoggingHandler struct {
	log *logger.Logger
}

func NewLoggingHandler(log *logger.Logger) *LoggingHandler {
	return &LoggingHandler{log: log}
}

func (h *LoggingHandler) HandleEvent(ctx context.Context, event *PlacementEvent) error {
	args := []interface{}{
		"event_id", event.ID.String(),
		"event_type", string(event.Type),
		"occupancy_id", event.OccupancyID.String(),
		"zone_cell_id", event.ZoneCellID.String(),
		"seller_id", event.SellerID.String(),
		"start_date", event.StartDate,
		"end_date", event.EndDate,
	}
	if event.Decision != "" {
		args = append(args, "decision", event.Decision)
	}
	h.log.InfoContext(ctx, "Placement event received", args...)
	return nil
}
