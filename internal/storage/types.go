package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrSchemaTooNew = errors.New("storage: schema version newer than code")
)

// MediaItem is one tracked piece of media. ID and DateAdded are assigned by
// the store on creation and never change afterwards. Rating is nil when the
// user has not rated the item.
type MediaItem struct {
	ID          int64
	Title       string
	MediaType   string
	Genre       string
	ReleaseDate string
	Director    string
	Description string
	Rating      *float64
	Status      string
	ImagePath   string
	DateAdded   time.Time
}

// User is one registered profile in the shared registry.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// Stats aggregates one library. AverageRating is the mean of all non-null
// ratings rounded to one decimal place, or 0 when nothing is rated.
type Stats struct {
	TotalItems      int
	TypeBreakdown   map[string]int
	StatusBreakdown map[string]int
	AverageRating   float64
}

type MediaRepository interface {
	// Create persists the item, assigning its id and date_added, and
	// returns the new id. No field-level validation happens here.
	Create(ctx context.Context, item *MediaItem) (int64, error)
	// Get returns ErrNotFound for a missing id, never a bare error.
	Get(ctx context.Context, id int64) (*MediaItem, error)
	// List returns every item, newest first.
	List(ctx context.Context) ([]MediaItem, error)
	// SearchByTitle matches a case-insensitive substring of the title,
	// ordered by title ascending. LIKE metacharacters in the input match
	// themselves.
	SearchByTitle(ctx context.Context, substring string) ([]MediaItem, error)
	FilterByType(ctx context.Context, mediaType string) ([]MediaItem, error)
	FilterByStatus(ctx context.Context, status string) ([]MediaItem, error)
	// Update replaces every mutable field of the row with the item's id.
	// The bool reports whether such a row existed; updating a missing id
	// is a no-op, not an error.
	Update(ctx context.Context, item *MediaItem) (bool, error)
	// Delete reports whether a row was removed, with the same
	// no-op-on-missing semantics as Update.
	Delete(ctx context.Context, id int64) (bool, error)
	Statistics(ctx context.Context) (*Stats, error)
}

type UserRepository interface {
	// List returns every user ordered by username ascending.
	List(ctx context.Context) ([]User, error)
	// Create inserts the username. It returns (false, nil) when the
	// username is already taken and (false, err) on any other storage
	// fault.
	Create(ctx context.Context, username string) (bool, error)
}
