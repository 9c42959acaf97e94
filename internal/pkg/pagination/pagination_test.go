package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Clamps(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
		wantOffset          int
	}{
		{1, 20, 1, 20, 0},
		{0, 0, 1, DefaultLimit, 0},
		{3, 10, 3, 10, 20},
		{2, 500, 2, MaxLimit, MaxLimit},
		{-4, -1, 1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		p := New(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, p.Page)
		assert.Equal(t, tt.wantLimit, p.Limit)
		assert.Equal(t, tt.wantOffset, p.Offset)
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(New(2, 10), 25)

	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	last := GetMeta(New(3, 10), 25)
	assert.False(t, last.HasNext)

	empty := GetMeta(New(1, 10), 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
