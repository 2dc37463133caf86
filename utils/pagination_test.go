package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset int
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"second page", 2, 10, 10, 10},
		{"large page", 5, 3, 12, 3},
		{"zero limit falls back to default", 1, 0, 0, DefaultPageLimit},
		{"negative limit falls back to default", 3, -1, 2 * DefaultPageLimit, DefaultPageLimit},
		{"page below one yields negative offset", 0, 10, -10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := Window(tt.page, tt.limit)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
