// Package search resolves free-text queries into playable tracks.
package search

import (
	"context"
	"errors"
	"strings"

	"tunebot/pkg/player"
)

// ErrNoResults is returned when a query matches nothing.
var ErrNoResults = errors.New("no results")

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("empty search query")

// Searcher looks up tracks. Implementations return at most limit tracks and
// ErrNoResults instead of an empty slice.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]player.Track, error)
}

func normalizeQuery(query string) (string, error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}
