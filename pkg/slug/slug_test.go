// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/innkeep/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ocean View", "ocean-view"},
		{"Phòng Biển", "phong-bien"},
		{"  --Sea__Side!! ", "sea-side"},
		{"über café", "uber-cafe"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ocean", slug.Truncate("ocean-view", 6))
	assert.Equal(t, "ocean-view", slug.Truncate("ocean-view", 40))
}
