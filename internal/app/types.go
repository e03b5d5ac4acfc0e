package app

import (
	"errors"
	"strconv"
)

var (
	ErrValidation    = errors.New("app: validation failed")
	ErrProfileExists = errors.New("app: profile already exists")
)

// Fixed vocabularies presented by the UI. The store itself accepts any
// text; these drive the pickers and the status default.
var (
	MediaTypes = []string{
		"Book", "Film", "Game", "Audiobook", "Podcast", "TV Show",
		"Documentary", "Comic", "Anime", "Manga", "Cartoon",
	}
	Statuses = []string{
		"To Read", "In Progress", "Completed", "On Hold", "Dropped",
	}
	Genres = []string{
		"Action", "Comedy", "Drama", "Fantasy", "Horror", "Romance",
		"Sci-Fi", "Thriller", "Mystery", "Adventure", "Biography",
		"Historical",
	}
	Months = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
)

// DefaultStatus is the status new items start in.
func DefaultStatus() string {
	return Statuses[0]
}

func Days() []string {
	out := make([]string, 0, 31)
	for day := 1; day <= 31; day++ {
		out = append(out, strconv.Itoa(day))
	}
	return out
}

func Years() []string {
	out := make([]string, 0, 126)
	for year := 1900; year <= 2025; year++ {
		out = append(out, strconv.Itoa(year))
	}
	return out
}

// Filter describes the presentation layer's combined view: a free-text
// title search plus exact type and status filters. Empty criteria are
// skipped.
type Filter struct {
	Search    string
	MediaType string
	Status    string
}

func (f Filter) IsZero() bool {
	return f.Search == "" && f.MediaType == "" && f.Status == ""
}

type ConflictMode string

const (
	ConflictModeSkip ConflictMode = "skip"
	ConflictModeCopy ConflictMode = "copy"
)

type ExportBundle struct {
	Version    int          `json:"version"`
	BundleID   string       `json:"bundle_id"`
	Profile    string       `json:"profile,omitempty"`
	ExportedAt string       `json:"exported_at"`
	Items      []ExportItem `json:"items"`
}

type ExportItem struct {
	Title       string   `json:"title"`
	MediaType   string   `json:"media_type"`
	Genre       string   `json:"genre,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Director    string   `json:"director,omitempty"`
	Description string   `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Status      string   `json:"status"`
	ImagePath   string   `json:"image_path,omitempty"`
	DateAdded   string   `json:"date_added,omitempty"`
}

type ImportCounts struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
