package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		size      int
		requested int
		want      page
	}{
		{
			name:      "first page of an even split",
			count:     20,
			size:      10,
			requested: 0,
			want:      page{index: 0, totalPages: 2, start: 0, end: 10, total: 20},
		},
		{
			name:      "partial last page",
			count:     25,
			size:      10,
			requested: 2,
			want:      page{index: 2, totalPages: 3, start: 20, end: 25, total: 25},
		},
		{
			name:      "empty list still has one page",
			count:     0,
			size:      10,
			requested: 0,
			want:      page{index: 0, totalPages: 1, start: 0, end: 0, total: 0},
		},
		{
			name:      "negative request clamps to first",
			count:     5,
			size:      10,
			requested: -3,
			want:      page{index: 0, totalPages: 1, start: 0, end: 5, total: 5},
		},
		{
			name:      "request past the end clamps to last",
			count:     25,
			size:      10,
			requested: 99,
			want:      page{index: 2, totalPages: 3, start: 20, end: 25, total: 25},
		},
		{
			name:      "size below one is treated as one",
			count:     3,
			size:      0,
			requested: 1,
			want:      page{index: 1, totalPages: 3, start: 1, end: 2, total: 3},
		},
		{
			name:      "single item",
			count:     1,
			size:      10,
			requested: 0,
			want:      page{index: 0, totalPages: 1, start: 0, end: 1, total: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.count, tt.size, tt.requested))
		})
	}
}

func TestPaginateCoversEveryItemOnce(t *testing.T) {
	const count, size = 23, 5

	seen := make([]bool, count)
	p := paginate(count, size, 0)
	for {
		for i := p.start; i < p.end; i++ {
			assert.False(t, seen[i], "item %d served twice", i)
			seen[i] = true
		}
		if !p.hasNext() {
			break
		}
		p = paginate(count, size, p.index+1)
	}

	for i, ok := range seen {
		assert.True(t, ok, "item %d never served", i)
	}
}

func TestPageNavigation(t *testing.T) {
	first := paginate(30, 10, 0)
	assert.False(t, first.hasPrev())
	assert.True(t, first.hasNext())

	middle := paginate(30, 10, 1)
	assert.True(t, middle.hasPrev())
	assert.True(t, middle.hasNext())

	last := paginate(30, 10, 2)
	assert.True(t, last.hasPrev())
	assert.False(t, last.hasNext())

	only := paginate(3, 10, 0)
	assert.False(t, only.hasPrev())
	assert.False(t, only.hasNext())
}
