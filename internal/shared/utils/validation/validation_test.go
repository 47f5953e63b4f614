package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type windowInput struct {
	ZoneAreaID string `validate:"required_without=ZoneCellID,excluded_with=ZoneCellID,omitempty,uuid"`
	ZoneCellID string `validate:"required_without=ZoneAreaID,excluded_with=ZoneAreaID,omitempty,uuid"`
	StartDate  string `validate:"required,civildate"`
}

func TestCivilDate(t *testing.T) {
	v := New()

	ok := windowInput{ZoneCellID: "7b7f3c4e-8f57-4d7e-9d3a-0c9c6b0f6a11", StartDate: "2024-07-01"}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.StartDate = "2024-13-40"
	err := v.Struct(bad)
	require.Error(t, err)

	fields, isMap := Describe(err).(map[string]string)
	require.True(t, isMap)
	assert.Contains(t, fields["start_date"], "YYYY-MM-DD")
}

func TestExactlyOneTarget(t *testing.T) {
	v := New()

	none := windowInput{StartDate: "2024-07-01"}
	assert.Error(t, v.Struct(none))

	both := windowInput{
		ZoneAreaID: "7b7f3c4e-8f57-4d7e-9d3a-0c9c6b0f6a11",
		ZoneCellID: "0e1b5b8a-2d6c-4b8e-9a51-3f0d1e2c7b90",
		StartDate:  "2024-07-01",
	}
	assert.Error(t, v.Struct(both))
}

func TestDescribeNonValidationError(t *testing.T) {
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "zone_cell_id", toSnake("ZoneCellID"))
	assert.Equal(t, "start_date", toSnake("StartDate"))
}
