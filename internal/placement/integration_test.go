//go:build integration

package placement_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"popupzone/internal/ledger"
	"popupzone/internal/occupancies"
	"popupzone/internal/placement"
	"popupzone/internal/shared/database"
	"popupzone/internal/zones"
	"popupzone/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("popupzone_test"),
		tcpostgres.WithUsername("popupzone"),
		tcpostgres.WithPassword("popupzone"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestPostgres_PlacementLifecycle(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	cells := zones.NewRepository(db)
	area := zones.ZoneArea{ID: uuid.New(), Name: "Pier", Status: zones.AreaStatusAvailable}
	require.NoError(t, cells.CreateArea(ctx, &area))
	cell := zones.ZoneCell{ID: uuid.New(), ZoneAreaID: area.ID, OwnerID: uuid.New(), Label: "P-1", Status: zones.CellStatusApproved}
	require.NoError(t, cells.CreateCell(ctx, &cell))

	window := zones.AvailabilityWindow{ID: uuid.New(), ZoneCellID: &cell.ID, StartDate: d("2024-07-01"), EndDate: d("2024-07-10")}
	require.NoError(t, cells.CreateWindow(ctx, &window))

	svc := placement.NewService(placement.NewGormUnitOfWork(db), lock.NewKeyedMutex(2*time.Second), placement.Options{
		Policy: placement.DefaultPolicy(),
		Now:    func() time.Time { return today },
	})
	seller, admin := uuid.New(), uuid.New()
	allocate := func(from, to string) (*occupancies.Occupancy, error) {
		return svc.Allocate(ctx, placement.AllocateInput{SellerID: seller, CellID: cell.ID, Name: "Kiosk", From: d(from), To: d(to)})
	}

	_, err := allocate("2024-07-05", "2024-07-08")
	assert.ErrorIs(t, err, placement.ErrCellUnavailable)

	// concurrent identical requests admit exactly one
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []uuid.UUID
		conflicts int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			occ, err := allocate("2024-07-11", "2024-07-15")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, occ.ID)
			case errors.Is(err, placement.ErrSchedulingConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	require.Len(t, winners, 1)
	assert.Equal(t, 9, conflicts)

	record, err := svc.Decide(ctx, placement.DecideInput{OccupancyID: winners[0], AdminID: admin, Decision: "APPROVE"})
	require.NoError(t, err)
	assert.Equal(t, winners[0], record.TargetID)

	_, err = svc.Decide(ctx, placement.DecideInput{OccupancyID: winners[0], AdminID: admin, Decision: "REJECT", Reason: "late"})
	assert.ErrorIs(t, err, placement.ErrAlreadyDecided)

	var conflict *placement.ConflictError
	_, err = allocate("2024-07-13", "2024-07-14")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, winners[0], conflict.ConflictingID)

	history, err := svc.History(ctx, winners[0])
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPostgres_CommittedIntervalsCannotOverlap(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	store := ledger.NewStore(db)
	cellID := uuid.New()

	first := ledger.Entry{OccupancyID: uuid.New(), ZoneCellID: cellID, StartDate: d("2024-08-01"), EndDate: d("2024-08-05"), State: ledger.StateCommitted}
	require.NoError(t, store.CreateEntry(ctx, &first))

	held := ledger.Entry{OccupancyID: uuid.New(), ZoneCellID: cellID, StartDate: d("2024-08-05"), EndDate: d("2024-08-06"), State: ledger.StateHeld}
	require.NoError(t, store.CreateEntry(ctx, &held))

	assert.Error(t, store.UpdateEntryState(ctx, held.OccupancyID, ledger.StateHeld, ledger.StateCommitted))
}
