package jsonstore

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		want        string
		wantSkipped []string
	}{
		{name: "empty collection", ids: nil, want: "1"},
		{name: "bare numbers", ids: []string{"1", "2", "3"}, want: "4"},
		{name: "prefixed", ids: []string{"p1", "p3", "p2"}, want: "4"},
		{name: "gaps use the maximum", ids: []string{"o2", "o12", "o7"}, want: "13"},
		{name: "mixed prefixes", ids: []string{"t1", "x40"}, want: "41"},
		{name: "digits scattered", ids: []string{"a1b2"}, want: "13"},
		{name: "no digits skipped", ids: []string{"p1", "legacy"}, want: "2", wantSkipped: []string{"legacy"}},
		{name: "only malformed", ids: []string{"", "abc"}, want: "1", wantSkipped: []string{"", "abc"}},
		{name: "leading zeros", ids: []string{"p007", "p3"}, want: "8"},
		{name: "past int64", ids: []string{"p9223372036854775807"}, want: "9223372036854775808"},
		{name: "wider than int64", ids: []string{"p99999999999999999999", "p3"}, want: "100000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped := NextID(tt.ids)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestNextID_AlwaysExceedsEveryExistingID(t *testing.T) {
	ids := make([]string, 0, 50)
	for i := range 50 {
		ids = append(ids, "d"+strconv.Itoa((i*37)%101))

		next, _ := NextID(ids)
		n, err := strconv.Atoi(next)
		assert.NoError(t, err)

		for _, id := range ids {
			existing, _ := strconv.Atoi(id[1:])
			assert.Greater(t, n, existing)
		}
	}
}
