package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLibraryPathIsDeterministic(t *testing.T) {
	t.Parallel()

	got := LibraryPath("/data/mediahub", "alice")
	require.Equal(t, filepath.Join("/data/mediahub", "media_library_alice.db"), got)
	require.Equal(t, got, LibraryPath("/data/mediahub", "alice"))
}

func TestLibraryPathVariesByUsername(t *testing.T) {
	t.Parallel()

	require.NotEqual(t,
		LibraryPath("/data", "alice"),
		LibraryPath("/data", "bob"),
	)
}

func TestRegistryPathIsShared(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("/data", "users.db"), RegistryPath("/data"))
}
