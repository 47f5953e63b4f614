package approvals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecision_IsValid(t *testing.T) {
	assert.True(t, DecisionApprove.IsValid())
	assert.True(t, DecisionReject.IsValid())
	assert.False(t, Decision("approve").IsValid())
	assert.False(t, Decision("").IsValid())
}
