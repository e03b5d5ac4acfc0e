package storage

import "path/filepath"

const (
	libraryFilePrefix = "media_library_"
	libraryFileSuffix = ".db"
	registryFileName  = "users.db"
)

// LibraryPath is the deterministic location of one user's library file
// inside dataDir. Any external tool can derive it without consulting the
// registry.
func LibraryPath(dataDir, username string) string {
	return filepath.Join(dataDir, libraryFilePrefix+username+libraryFileSuffix)
}

// RegistryPath is the location of the shared user registry inside dataDir.
func RegistryPath(dataDir string) string {
	return filepath.Join(dataDir, registryFileName)
}
