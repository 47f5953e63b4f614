package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Query
		want Query
	}{
		{"defaults", Query{}, Query{Page: 0, Size: DefaultSize}},
		{"negative page", Query{Page: -3, Size: 5}, Query{Page: 0, Size: 5}},
		{"size capped", Query{Page: 2, Size: 1000}, Query{Page: 2, Size: MaxSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestOffsetAndMeta(t *testing.T) {
	q := New(2, 10)
	assert.Equal(t, 20, q.Offset())

	meta := NewMeta(q, 21)
	assert.Equal(t, int64(21), meta.TotalElements)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Size)

	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
}
