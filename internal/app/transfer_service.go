package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amanthanvi/mediahub/internal/storage"
)

const exportBundleVersion = 1

// TransferService moves one profile's library in and out of a versioned
// JSON bundle.
type TransferService struct {
	media   storage.MediaRepository
	profile string
}

func NewTransferService(media storage.MediaRepository, profile string) *TransferService {
	return &TransferService{media: media, profile: profile}
}

func (s *TransferService) ExportJSON(ctx context.Context) ([]byte, error) {
	if s == nil || s.media == nil {
		return nil, fmt.Errorf("export json: media repository is nil")
	}

	items, err := s.media.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export json: list items: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Title < items[j].Title })

	bundle := ExportBundle{
		Version:    exportBundleVersion,
		BundleID:   uuid.NewString(),
		Profile:    s.profile,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Items:      make([]ExportItem, 0, len(items)),
	}
	for _, item := range items {
		bundle.Items = append(bundle.Items, ExportItem{
			Title:       item.Title,
			MediaType:   item.MediaType,
			Genre:       item.Genre,
			ReleaseDate: item.ReleaseDate,
			Director:    item.Director,
			Description: item.Description,
			Rating:      cloneRating(item.Rating),
			Status:      item.Status,
			ImagePath:   item.ImagePath,
			DateAdded:   item.DateAdded.UTC().Format(time.RFC3339),
		})
	}

	payload, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("export json: marshal: %w", err)
	}
	return payload, nil
}

// ImportJSON creates the bundle's items in this profile's library. The
// store assigns fresh ids and date_added values; the bundle's dates are
// informational only. Mode skip drops items whose title and media type
// already exist, mode copy always creates.
func (s *TransferService) ImportJSON(ctx context.Context, payload []byte, mode ConflictMode) (ImportCounts, error) {
	var counts ImportCounts

	if s == nil || s.media == nil {
		return counts, fmt.Errorf("import json: media repository is nil")
	}
	mode, err := normalizeConflictMode(mode)
	if err != nil {
		return counts, err
	}
	if len(payload) == 0 {
		return counts, fmt.Errorf("%w: empty payload", ErrValidation)
	}

	var bundle ExportBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return counts, fmt.Errorf("import json: decode payload: %w", err)
	}
	if bundle.Version != exportBundleVersion {
		return counts, fmt.Errorf("%w: unsupported bundle version %d", ErrValidation, bundle.Version)
	}

	existing := map[string]struct{}{}
	if mode == ConflictModeSkip {
		items, err := s.media.List(ctx)
		if err != nil {
			return counts, fmt.Errorf("import json: list existing items: %w", err)
		}
		for _, item := range items {
			existing[itemKey(item.Title, item.MediaType)] = struct{}{}
		}
	}

	library := NewLibraryService(s.media)
	for _, entry := range bundle.Items {
		if mode == ConflictModeSkip {
			if _, ok := existing[itemKey(entry.Title, entry.MediaType)]; ok {
				counts.Skipped++
				continue
			}
		}

		item := &storage.MediaItem{
			Title:       entry.Title,
			MediaType:   entry.MediaType,
			Genre:       entry.Genre,
			ReleaseDate: entry.ReleaseDate,
			Director:    entry.Director,
			Description: entry.Description,
			Rating:      cloneRating(entry.Rating),
			Status:      entry.Status,
			ImagePath:   entry.ImagePath,
		}
		if _, err := library.Create(ctx, item); err != nil {
			return counts, fmt.Errorf("import json: item %q: %w", entry.Title, err)
		}
		existing[itemKey(entry.Title, entry.MediaType)] = struct{}{}
		counts.Created++
	}

	return counts, nil
}

func normalizeConflictMode(mode ConflictMode) (ConflictMode, error) {
	switch mode {
	case "":
		return ConflictModeSkip, nil
	case ConflictModeSkip, ConflictModeCopy:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: unsupported conflict mode %q", ErrValidation, mode)
	}
}

func itemKey(title, mediaType string) string {
	return strings.ToLower(title) + "\x00" + strings.ToLower(mediaType)
}

func cloneRating(rating *float64) *float64 {
	if rating == nil {
		return nil
	}
	value := *rating
	return &value
}
