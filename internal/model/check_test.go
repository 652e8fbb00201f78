package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCheck(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		breaches []Breach
		source   string
		found    bool
		count    int
		isDemo   bool
	}{
		{name: "hibp with breaches", breaches: []Breach{{Name: "A"}, {Name: "B"}}, source: SourceHIBP, found: true, count: 2},
		{name: "hibp without breaches", breaches: nil, source: SourceHIBP, found: false, count: 0},
		{name: "demo with breach", breaches: []Breach{{Name: "ExampleBreach"}}, source: SourceDemo, found: true, count: 1, isDemo: true},
		{name: "demo empty", breaches: []Breach{}, source: SourceDemo, found: false, count: 0, isDemo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCheck("user@example.com", tt.breaches, tt.source, at)

			assert.Equal(t, "user@example.com", c.Email)
			assert.Equal(t, tt.found, c.Found)
			assert.Equal(t, tt.count, c.Count)
			assert.Len(t, c.Breaches, c.Count)
			assert.NotNil(t, c.Breaches)
			assert.Equal(t, tt.isDemo, c.IsDemo)
			assert.Equal(t, at, c.CheckedAt)
		})
	}
}
