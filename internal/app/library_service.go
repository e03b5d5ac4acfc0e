package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/amanthanvi/mediahub/internal/storage"
)

// LibraryService fronts one profile's media repository. Field-level
// validation lives here, not in the store.
type LibraryService struct {
	media storage.MediaRepository
}

func NewLibraryService(media storage.MediaRepository) *LibraryService {
	return &LibraryService{media: media}
}

func (s *LibraryService) Create(ctx context.Context, item *storage.MediaItem) (int64, error) {
	if err := validateItem(item); err != nil {
		return 0, err
	}
	id, err := s.media.Create(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}
	return id, nil
}

func (s *LibraryService) Get(ctx context.Context, id int64) (*storage.MediaItem, error) {
	item, err := s.media.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *LibraryService) Update(ctx context.Context, item *storage.MediaItem) (bool, error) {
	if err := validateItem(item); err != nil {
		return false, err
	}
	ok, err := s.media.Update(ctx, item)
	if err != nil {
		return false, fmt.Errorf("update item: %w", err)
	}
	return ok, nil
}

func (s *LibraryService) Delete(ctx context.Context, id int64) (bool, error) {
	removed, err := s.media.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return removed, nil
}

// List loads the full library (newest first) and narrows it by successive
// in-memory intersection of the filter's criteria, mirroring how the view
// recombines search text with the type and status pickers. No composite
// query is pushed to the store.
func (s *LibraryService) List(ctx context.Context, filter Filter) ([]storage.MediaItem, error) {
	items, err := s.media.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if query := strings.ToLower(strings.TrimSpace(filter.Search)); query != "" {
		items = filterItems(items, func(item storage.MediaItem) bool {
			return strings.Contains(strings.ToLower(item.Title), query)
		})
	}
	if filter.MediaType != "" {
		items = filterItems(items, func(item storage.MediaItem) bool {
			return item.MediaType == filter.MediaType
		})
	}
	if filter.Status != "" {
		items = filterItems(items, func(item storage.MediaItem) bool {
			return item.Status == filter.Status
		})
	}
	return items, nil
}

func (s *LibraryService) Search(ctx context.Context, substring string) ([]storage.MediaItem, error) {
	items, err := s.media.SearchByTitle(ctx, substring)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

func (s *LibraryService) ByType(ctx context.Context, mediaType string) ([]storage.MediaItem, error) {
	items, err := s.media.FilterByType(ctx, mediaType)
	if err != nil {
		return nil, fmt.Errorf("filter items by type: %w", err)
	}
	return items, nil
}

func (s *LibraryService) ByStatus(ctx context.Context, status string) ([]storage.MediaItem, error) {
	items, err := s.media.FilterByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("filter items by status: %w", err)
	}
	return items, nil
}

func (s *LibraryService) Statistics(ctx context.Context) (*storage.Stats, error) {
	stats, err := s.media.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("statistics: %w", err)
	}
	return stats, nil
}

func validateItem(item *storage.MediaItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrValidation)
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(item.MediaType) == "" {
		return fmt.Errorf("%w: media type is required", ErrValidation)
	}
	if strings.TrimSpace(item.Status) == "" {
		return fmt.Errorf("%w: status is required", ErrValidation)
	}
	if item.Rating != nil && (*item.Rating < 0 || *item.Rating > 10) {
		return fmt.Errorf("%w: rating must be between 0 and 10", ErrValidation)
	}
	return nil
}

func filterItems(items []storage.MediaItem, keep func(storage.MediaItem) bool) []storage.MediaItem {
	out := make([]storage.MediaItem, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
