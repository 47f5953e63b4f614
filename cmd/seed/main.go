package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/placement"
	"popupzone/internal/shared/config"
	"popupzone/internal/shared/database"
	"popupzone/internal/shared/utils/dates"
	"popupzone/internal/users"
	"popupzone/internal/zones"
	"popupzone/pkg/lock"
	"popupzone/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Fixed identities so the printed tokens stay valid across reseeds.
var (
	adminID  = uuid.MustParse("00000000-0000-4000-8000-0000000000a1")
	sellerID = uuid.MustParse("00000000-0000-4000-8000-0000000000b1")
	ownerID  = uuid.MustParse("00000000-0000-4000-8000-0000000000c1")
)

type Seeder struct {
	db        *database.DB
	zones     zones.Service
	placement placement.Service
}

func main() {
	fmt.Println("🌱 Starting popupzone database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.UsesMemoryStorage() {
		log.Fatalf("STORAGE_DRIVER=memory has nothing to seed")
	}

	appLogger := logger.New()
	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		db:    db,
		zones: zones.NewService(zones.NewRepository(db.PostgreSQL)),
		placement: placement.NewService(
			placement.NewGormUnitOfWork(db.PostgreSQL),
			lock.NewKeyedMutex(cfg.Lock.Timeout),
			placement.Options{Logger: appLogger, Policy: placement.Policy{MaxSpanDays: cfg.Placement.MaxSpanDays}},
		),
	}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🔑 Development tokens (24h):")
	for _, who := range []struct {
		label string
		id    uuid.UUID
		role  users.Role
	}{
		{"admin ", adminID, users.RoleAdmin},
		{"seller", sellerID, users.RoleSeller},
		{"owner ", ownerID, users.RoleSeller},
	} {
		token, err := devToken(cfg.JWT.Secret, who.id, who.role)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Printf("  %s %s\n", who.label, token)
	}

	fmt.Println("\n🎉 Seeding completed!")
}

// CleanDatabase truncates every table, dependents first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"approval_records",
		"ledger_entries",
		"occupancies",
		"availability_windows",
		"zone_cells",
		"zone_areas",
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll creates two areas with cells, a maintenance window and a few
// occupancies in every approval state.
func (s *Seeder) SeedAll(ctx context.Context) error {
	riverside, err := s.zones.CreateArea(ctx, zones.CreateAreaRequest{RegionID: "seoul-mapo", Name: "Riverside Market"})
	if err != nil {
		return fmt.Errorf("failed to seed area: %w", err)
	}
	plaza, err := s.zones.CreateArea(ctx, zones.CreateAreaRequest{RegionID: "seoul-jung", Name: "City Hall Plaza"})
	if err != nil {
		return fmt.Errorf("failed to seed area: %w", err)
	}

	var cells []*zones.ZoneCell
	for _, spec := range []struct {
		area  *zones.ZoneArea
		label string
	}{
		{riverside, "R-01"},
		{riverside, "R-02"},
		{riverside, "R-03"},
		{plaza, "P-01"},
	} {
		cell, err := s.zones.CreateCell(ctx, ownerID, zones.CreateCellRequest{ZoneAreaID: spec.area.ID.String(), Label: spec.label})
		if err != nil {
			return fmt.Errorf("failed to seed cell %s: %w", spec.label, err)
		}
		if err := s.zones.ChangeCellStatus(ctx, cell.ID, zones.CellStatusApproved); err != nil {
			return fmt.Errorf("failed to approve cell %s: %w", spec.label, err)
		}
		cells = append(cells, cell)
		fmt.Printf("  Cell %s (%s)\n", spec.label, cell.ID)
	}

	// Plaza closes for a week, then stops taking new cells
	start := dates.Normalize(time.Now()).AddDate(0, 0, 14)
	if _, err := s.zones.AddWindow(ctx, adminID, zones.CreateWindowRequest{
		ZoneAreaID: plaza.ID.String(),
		StartDate:  dates.Format(start),
		EndDate:    dates.Format(start.AddDate(0, 0, 6)),
		Reason:     "Festival setup",
	}); err != nil {
		return fmt.Errorf("failed to seed window: %w", err)
	}
	if err := s.zones.ChangeAreaStatus(ctx, plaza.ID, zones.AreaStatusUnavailable); err != nil {
		return fmt.Errorf("failed to close plaza: %w", err)
	}

	requests := []struct {
		cell     *zones.ZoneCell
		name     string
		from     int
		days     int
		decision approvals.Decision
	}{
		{cells[0], "Coffee truck", 3, 5, approvals.DecisionApprove},
		{cells[0], "Book swap", 10, 2, ""},
		{cells[1], "Vintage clothes", 3, 10, approvals.DecisionReject},
		{cells[2], "Street food", 7, 3, ""},
	}
	for _, req := range requests {
		from := dates.Normalize(time.Now()).AddDate(0, 0, req.from)
		occ, err := s.placement.Allocate(ctx, placement.AllocateInput{
			SellerID: sellerID,
			CellID:   req.cell.ID,
			Name:     req.name,
			From:     from,
			To:       from.AddDate(0, 0, req.days-1),
		})
		if err != nil {
			return fmt.Errorf("failed to seed occupancy %q: %w", req.name, err)
		}
		if req.decision != "" {
			_, err := s.placement.Decide(ctx, placement.DecideInput{
				OccupancyID: occ.ID,
				AdminID:     adminID,
				Decision:    req.decision,
				Reason:      "seeded",
			})
			if err != nil {
				return fmt.Errorf("failed to decide occupancy %q: %w", req.name, err)
			}
		}
		fmt.Printf("  Occupancy %q on %s\n", req.name, req.cell.Label)
	}

	return nil
}

func devToken(secret string, userID uuid.UUID, role users.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    string(role),
		"type":    "access",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
