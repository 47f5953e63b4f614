package occupancies

import (
	"testing"
	"time"

	"popupzone/internal/approvals"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending() *Occupancy {
	return &Occupancy{ID: uuid.New(), ApprovalStatus: StatusPending}
}

func TestTransition_Approve(t *testing.T) {
	o := pending()
	admin := uuid.New()
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	rec, err := o.Transition(approvals.DecisionApprove, admin, "  looks fine ", at)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, o.ApprovalStatus)
	assert.Empty(t, o.RejectionReason)
	require.NotNil(t, o.DecidedAt)
	assert.Equal(t, at, *o.DecidedAt)

	assert.Equal(t, approvals.TargetOccupancy, rec.TargetType)
	assert.Equal(t, o.ID, rec.TargetID)
	assert.Equal(t, approvals.DecisionApprove, rec.Decision)
	assert.Equal(t, "looks fine", rec.Reason)
	assert.Equal(t, admin, rec.AdminID)
	assert.Equal(t, at, rec.ProcessedAt)
	assert.NotEqual(t, uuid.Nil, rec.ID)
}

func TestTransition_Reject(t *testing.T) {
	o := pending()

	rec, err := o.Transition(approvals.DecisionReject, uuid.New(), "blocked entrance", time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, o.ApprovalStatus)
	assert.Equal(t, "blocked entrance", o.RejectionReason)
	assert.Equal(t, "blocked entrance", rec.Reason)
}

func TestTransition_Errors(t *testing.T) {
	t.Run("reject without reason", func(t *testing.T) {
		o := pending()
		_, err := o.Transition(approvals.DecisionReject, uuid.New(), "   ", time.Now())
		assert.ErrorIs(t, err, ErrReasonRequired)
		assert.Equal(t, StatusPending, o.ApprovalStatus)
	})

	t.Run("unknown decision", func(t *testing.T) {
		o := pending()
		_, err := o.Transition(approvals.Decision("MAYBE"), uuid.New(), "", time.Now())
		assert.ErrorIs(t, err, ErrInvalidDecision)
		assert.Nil(t, o.DecidedAt)
	})

	t.Run("already decided", func(t *testing.T) {
		o := pending()
		_, err := o.Transition(approvals.DecisionApprove, uuid.New(), "", time.Now())
		require.NoError(t, err)

		_, err = o.Transition(approvals.DecisionReject, uuid.New(), "late", time.Now())
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, StatusApproved, o.ApprovalStatus)
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.HoldsInterval())
	assert.True(t, StatusApproved.HoldsInterval())
	assert.False(t, StatusRejected.HoldsInterval())

	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, Status("DONE").IsValid())
}
