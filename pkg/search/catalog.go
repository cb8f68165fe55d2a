package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tunebot/pkg/player"
)

// Catalog searches a fixed list of tracks, matching every query word against
// title and author.
type Catalog struct {
	tracks []player.Track
}

type catalogFile struct {
	Tracks []player.Track `yaml:"tracks"`
}

// NewCatalog creates a searcher over tracks.
func NewCatalog(tracks []player.Track) *Catalog {
	return &Catalog{tracks: append([]player.Track(nil), tracks...)}
}

// LoadCatalog reads a YAML catalog with a top-level tracks list.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return NewCatalog(file.Tracks), nil
}

// Len returns the number of tracks in the catalog.
func (c *Catalog) Len() int { return len(c.tracks) }

// Search implements Searcher.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]player.Track, error) {
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}
	words := strings.Fields(strings.ToLower(query))

	var out []player.Track
	for _, t := range c.tracks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		haystack := strings.ToLower(t.Title + " " + t.Author)
		if matchesAll(haystack, words) {
			out = append(out, t)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return out, nil
}

func matchesAll(haystack string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}
