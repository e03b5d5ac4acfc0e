package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/amanthanvi/mediahub/internal/storage"
)

type Check struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Bundle struct {
	GeneratedAt string         `json:"generated_at"`
	GOOS        string         `json:"goos"`
	GOARCH      string         `json:"goarch"`
	Version     map[string]any `json:"version,omitempty"`
	Storage     map[string]any `json:"storage,omitempty"`
	Checks      []Check        `json:"checks,omitempty"`
	Notes       []string       `json:"notes,omitempty"`
}

func NewBundle() Bundle {
	return Bundle{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339Nano),
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
	}
}

// Collect probes the data directory, the profile registry, and every
// profile library without mutating them. A failed probe becomes a
// failing check rather than an error so a broken install still
// produces a bundle.
func Collect(ctx context.Context, dataDir string) Bundle {
	bundle := NewBundle()
	bundle.Storage = map[string]any{"data_dir": dataDir}

	info, err := os.Stat(dataDir)
	if err != nil {
		bundle.Checks = append(bundle.Checks, Check{Name: "data_dir", OK: false, Message: err.Error()})
		return bundle
	}
	if !info.IsDir() {
		bundle.Checks = append(bundle.Checks, Check{Name: "data_dir", OK: false, Message: "not a directory"})
		return bundle
	}
	bundle.Checks = append(bundle.Checks, Check{Name: "data_dir", OK: true, Message: dataDir})

	registryPath := storage.RegistryPath(dataDir)
	if _, err := os.Stat(registryPath); err != nil {
		bundle.Checks = append(bundle.Checks, Check{Name: "registry", OK: false, Message: err.Error()})
		return bundle
	}

	registry, err := storage.OpenRegistry(registryPath)
	if err != nil {
		bundle.Checks = append(bundle.Checks, Check{Name: "registry", OK: false, Message: err.Error()})
		return bundle
	}
	defer func() { _ = registry.Close() }()

	users, err := registry.Users.List(ctx)
	if err != nil {
		bundle.Checks = append(bundle.Checks, Check{Name: "registry", OK: false, Message: err.Error()})
		return bundle
	}
	bundle.Storage["profiles"] = len(users)
	bundle.Checks = append(bundle.Checks, Check{Name: "registry", OK: true, Message: fmt.Sprintf("%d profiles", len(users))})

	for _, user := range users {
		bundle.Checks = append(bundle.Checks, probeLibrary(ctx, dataDir, user.Username))
	}
	return bundle
}

// probeLibrary stats the file before opening so a missing library is
// reported instead of silently recreated.
func probeLibrary(ctx context.Context, dataDir, username string) Check {
	name := "library:" + username
	path := storage.LibraryPath(dataDir, username)

	if _, err := os.Stat(path); err != nil {
		return Check{Name: name, OK: false, Message: err.Error()}
	}

	store, err := storage.OpenLibrary(path)
	if err != nil {
		return Check{Name: name, OK: false, Message: err.Error()}
	}
	defer func() { _ = store.Close() }()

	stats, err := store.Media.Statistics(ctx)
	if err != nil {
		return Check{Name: name, OK: false, Message: err.Error()}
	}
	return Check{Name: name, OK: true, Message: fmt.Sprintf("%d items", stats.TotalItems)}
}

func WriteBundle(outputPath string, bundle Bundle) error {
	if outputPath == "" {
		return fmt.Errorf("write debug bundle: output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o700); err != nil {
		return fmt.Errorf("write debug bundle: create output directory: %w", err)
	}

	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("write debug bundle: marshal json: %w", err)
	}
	if err := os.WriteFile(outputPath, payload, 0o600); err != nil {
		return fmt.Errorf("write debug bundle: %w", err)
	}
	return nil
}
