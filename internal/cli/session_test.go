package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanthanvi/mediahub/internal/app"
	"github.com/amanthanvi/mediahub/internal/config"
	"github.com/amanthanvi/mediahub/internal/storage"
)

func testSessionConfig(t *testing.T) config.Config {
	t.Helper()

	dataDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = dataDir
	cfg.Logging.File = filepath.Join(dataDir, "logs", "mediahub.log")
	return cfg
}

func newTestSession(t *testing.T) *Session {
	t.Helper()

	session, err := NewSession(testSessionConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestSessionProfileLifecycle(t *testing.T) {

	session := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.CreateProfile(ctx, "casey"))
	require.NoError(t, session.OpenProfile(ctx, "casey"))

	id, err := session.CreateItem(ctx, &storage.MediaItem{Title: "Dune", MediaType: "Book", Status: "To Read"})
	require.NoError(t, err)
	require.Positive(t, id)

	items, err := session.Items(ctx, app.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items[0].Status = "Completed"
	found, err := session.UpdateItem(ctx, &items[0])
	require.NoError(t, err)
	require.True(t, found)

	stats, err := session.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalItems)

	found, err = session.DeleteItem(ctx, id)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, session.CloseProfile())
}

func TestSessionRejectsLibraryOpsWithoutProfile(t *testing.T) {

	session := newTestSession(t)
	ctx := context.Background()

	_, err := session.Items(ctx, app.Filter{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no profile is open")

	_, err = session.ExportJSON(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no profile is open")
}

func TestSessionOpenUnknownProfileIsNotFound(t *testing.T) {

	session := newTestSession(t)

	err := session.OpenProfile(context.Background(), "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionOpenSwitchesLibraries(t *testing.T) {

	session := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.CreateProfile(ctx, "casey"))
	require.NoError(t, session.CreateProfile(ctx, "robin"))

	require.NoError(t, session.OpenProfile(ctx, "casey"))
	_, err := session.CreateItem(ctx, &storage.MediaItem{Title: "Dune", MediaType: "Book", Status: "To Read"})
	require.NoError(t, err)

	require.NoError(t, session.OpenProfile(ctx, "robin"))
	items, err := session.Items(ctx, app.Filter{})
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, session.OpenProfile(ctx, "casey"))
	items, err = session.Items(ctx, app.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSessionTransferRoundTrip(t *testing.T) {

	session := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.CreateProfile(ctx, "casey"))
	require.NoError(t, session.OpenProfile(ctx, "casey"))
	_, err := session.CreateItem(ctx, &storage.MediaItem{Title: "Dune", MediaType: "Book", Status: "Completed"})
	require.NoError(t, err)

	payload, err := session.ExportJSON(ctx)
	require.NoError(t, err)

	counts, err := session.ImportJSON(ctx, payload, app.ConflictModeCopy)
	require.NoError(t, err)
	require.Equal(t, app.ImportCounts{Created: 1, Skipped: 0}, counts)

	items, err := session.Items(ctx, app.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestSessionWritesStructuredLog(t *testing.T) {

	cfg := testSessionConfig(t)
	session, err := NewSession(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, session.CreateProfile(ctx, "casey"))
	require.NoError(t, session.OpenProfile(ctx, "casey"))
	require.NoError(t, session.Close())

	raw, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"profile created"`)
	require.Contains(t, string(raw), `"library opened"`)
}
