package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_CountSitesMatching(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(Site{ID: 1, Domain: "example.com", Path: "/"})
	require.NoError(t, store.Add(ctx, Site{ID: 3, Domain: "example.com", Path: "/blog/"}))

	tests := []struct {
		name string
		id   string
		want int
	}{
		{name: "main site", id: "1", want: 1},
		{name: "added site", id: "3", want: 1},
		{name: "unknown site", id: "2", want: 0},
		{name: "non-numeric", id: "abc", want: 0},
		{name: "empty", id: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.CountSitesMatching(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
