// Package catalog holds the static list of songs shown in the gallery.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/samber/lo"
	"go.yaml.in/yaml/v3"
)

//go:embed songs.yaml
var defaultSongs []byte

// file is the on-disk layout of a catalog
type file struct {
	Songs []domain.Song `yaml:"songs"`
}

// Catalog is an ordered, read-only list of songs
type Catalog struct {
	songs []domain.Song
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultSongs)
}

// Load reads a catalog from path, or the built-in one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := Validate(f.Songs); err != nil {
		return nil, err
	}
	return &Catalog{songs: f.Songs}, nil
}

// Validate checks that every song has an ID and a title and that IDs are
// unique. An empty audio URL is allowed; such songs show a notice instead of
// a player.
func Validate(songs []domain.Song) error {
	var errs []error
	for i, s := range songs {
		if s.ID <= 0 {
			errs = append(errs, fmt.Errorf("song %d: id must be positive", i))
		}
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Errorf("song %d: title is required", i))
		}
	}
	dups := lo.FindDuplicatesBy(songs, func(s domain.Song) int { return s.ID })
	for _, d := range dups {
		errs = append(errs, fmt.Errorf("duplicate song id %d", d.ID))
	}
	return errors.Join(errs...)
}

// Songs returns the songs in display order
func (c *Catalog) Songs() []domain.Song {
	out := make([]domain.Song, len(c.songs))
	copy(out, c.songs)
	return out
}

// Len returns the number of songs
func (c *Catalog) Len() int {
	return len(c.songs)
}

// ByID looks up a song
func (c *Catalog) ByID(id int) (domain.Song, error) {
	song, ok := lo.Find(c.songs, func(s domain.Song) bool { return s.ID == id })
	if !ok {
		return domain.Song{}, fmt.Errorf("%w: %d", domain.ErrSongNotFound, id)
	}
	return song, nil
}

// Search ranks songs whose title or artist fuzzily contains query. Closer
// matches come first; an empty query returns every song in order.
func (c *Catalog) Search(query string) []domain.Song {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Songs()
	}

	targets := lo.Map(c.songs, func(s domain.Song, _ int) string {
		return s.Title + " " + s.Artist
	})
	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) domain.Song {
		return c.songs[r.OriginalIndex]
	})
}
