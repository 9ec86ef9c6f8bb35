package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		page, size  int
		offset, lim int
	}{
		{name: "first page", page: 1, size: 10, offset: 0, lim: 10},
		{name: "third page", page: 3, size: 10, offset: 20, lim: 10},
		{name: "zero page", page: 0, size: 5, offset: 0, lim: 5},
		{name: "default size", page: 2, size: 0, offset: DefaultPageSize, lim: DefaultPageSize},
		{name: "capped size", page: 1, size: 1000, offset: 0, lim: MaxPageSize},
		{name: "huge page", page: math.MaxInt, size: 100, offset: (math.MaxInt/100 - 1) * 100, lim: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.offset, offset)
			assert.Equal(t, tt.lim, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestCalculate_OffsetNeverNegative(t *testing.T) {
	for _, page := range []int{math.MaxInt, math.MaxInt / 2, math.MaxInt/MaxPageSize + 1} {
		offset, _ := Calculate(page, MaxPageSize)
		assert.GreaterOrEqual(t, offset, 0)
	}
}
