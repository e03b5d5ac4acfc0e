package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanthanvi/mediahub/internal/storage"
)

func TestCreateItemRejectsMissingTitle(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	_, err := library.Create(context.Background(), &storage.MediaItem{
		MediaType: "Book",
		Status:    DefaultStatus(),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateItemRejectsMissingMediaType(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	_, err := library.Create(context.Background(), &storage.MediaItem{
		Title:  "Untyped",
		Status: DefaultStatus(),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateItemRejectsMissingStatus(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	_, err := library.Create(context.Background(), &storage.MediaItem{
		Title:     "No Status",
		MediaType: "Book",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateItemRejectsOutOfRangeRating(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	ctx := context.Background()

	for _, bad := range []float64{-0.5, 10.5, 42} {
		rating := bad
		_, err := library.Create(ctx, &storage.MediaItem{
			Title:     "Rated",
			MediaType: "Film",
			Status:    DefaultStatus(),
			Rating:    &rating,
		})
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestCreateItemAcceptsBoundaryRatings(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	ctx := context.Background()

	for _, good := range []float64{0, 10} {
		rating := good
		_, err := library.Create(ctx, &storage.MediaItem{
			Title:     "Boundary",
			MediaType: "Film",
			Status:    DefaultStatus(),
			Rating:    &rating,
		})
		require.NoError(t, err)
	}
}

func TestUpdateValidatesBeforeTouchingStore(t *testing.T) {
	t.Parallel()

	library, store := newTestLibraryService(t)
	ctx := context.Background()

	id, err := library.Create(ctx, &storage.MediaItem{Title: "Original", MediaType: "Book", Status: DefaultStatus()})
	require.NoError(t, err)

	_, err = library.Update(ctx, &storage.MediaItem{ID: id, MediaType: "Book", Status: DefaultStatus()})
	require.ErrorIs(t, err, ErrValidation)

	loaded, err := store.Media.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Original", loaded.Title)
}

func TestListIntersectsSearchTypeAndStatus(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	ctx := context.Background()

	seed := []storage.MediaItem{
		{Title: "Alpha Book", MediaType: "Book", Status: "Completed"},
		{Title: "Alpha Film", MediaType: "Film", Status: "Completed"},
		{Title: "Beta Book", MediaType: "Book", Status: "To Read"},
	}
	for i := range seed {
		_, err := library.Create(ctx, &seed[i])
		require.NoError(t, err)
	}

	items, err := library.List(ctx, Filter{Search: "ALPHA"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = library.List(ctx, Filter{Search: "alpha", MediaType: "Book"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Alpha Book", items[0].Title)

	items, err = library.List(ctx, Filter{MediaType: "Film", Status: "Completed"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Alpha Film", items[0].Title)

	items, err = library.List(ctx, Filter{Search: "alpha", MediaType: "Book", Status: "To Read"})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestListEmptyFilterPreservesStoreOrder(t *testing.T) {
	t.Parallel()

	library, _ := newTestLibraryService(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second", "Third"} {
		_, err := library.Create(ctx, &storage.MediaItem{Title: title, MediaType: "Book", Status: DefaultStatus()})
		require.NoError(t, err)
	}

	items, err := library.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Third", items[0].Title)
	require.Equal(t, "Second", items[1].Title)
	require.Equal(t, "First", items[2].Title)
}

func TestProfileCreateProvisionsEmptyLibrary(t *testing.T) {
	t.Parallel()

	profiles, _ := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, profiles.Create(ctx, "casey"))

	_, err := os.Stat(profiles.LibraryPath("casey"))
	require.NoError(t, err)

	store, err := profiles.OpenLibrary(ctx, "casey")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	items, err := store.Media.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestProfileCreateDuplicateReturnsErrProfileExists(t *testing.T) {
	t.Parallel()

	profiles, _ := newTestProfileService(t)
	ctx := context.Background()

	require.NoError(t, profiles.Create(ctx, "a"))
	err := profiles.Create(ctx, "a")
	require.ErrorIs(t, err, ErrProfileExists)

	users, err := profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "a", users[0].Username)
}

func TestProfileCreateRequiresUsername(t *testing.T) {
	t.Parallel()

	profiles, _ := newTestProfileService(t)
	ctx := context.Background()

	require.ErrorIs(t, profiles.Create(ctx, ""), ErrValidation)
	require.ErrorIs(t, profiles.Create(ctx, "   "), ErrValidation)
}

func TestProfileListOrdersAscending(t *testing.T) {
	t.Parallel()

	profiles, _ := newTestProfileService(t)
	ctx := context.Background()

	for _, name := range []string{"zoe", "ana"} {
		require.NoError(t, profiles.Create(ctx, name))
	}

	users, err := profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ana", users[0].Username)
	require.Equal(t, "zoe", users[1].Username)
}

func newTestLibraryService(t *testing.T) (*LibraryService, *storage.LibraryStore) {
	t.Helper()
	store, err := storage.OpenLibrary(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return NewLibraryService(store.Media), store
}

func newTestProfileService(t *testing.T) (*ProfileService, string) {
	t.Helper()
	dataDir := t.TempDir()
	registry, err := storage.OpenRegistry(storage.RegistryPath(dataDir))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, registry.Close()) })
	return NewProfileService(registry.Users, dataDir), dataDir
}
