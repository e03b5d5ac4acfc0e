package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/amanthanvi/mediahub/internal/storage"
)

// ProfileService manages the registered usernames and the per-profile
// library files under one data directory.
type ProfileService struct {
	users   storage.UserRepository
	dataDir string
}

func NewProfileService(users storage.UserRepository, dataDir string) *ProfileService {
	return &ProfileService{users: users, dataDir: dataDir}
}

func (s *ProfileService) List(ctx context.Context) ([]storage.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return users, nil
}

// Create registers the username and provisions its empty library file.
// A taken username surfaces as ErrProfileExists; provisioning is an
// open-then-close so re-running it against an existing file is harmless.
func (s *ProfileService) Create(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}

	created, err := s.users.Create(ctx, username)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrProfileExists, username)
	}

	store, err := storage.OpenLibrary(s.LibraryPath(username))
	if err != nil {
		return fmt.Errorf("create profile: provision library: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("create profile: close provisioned library: %w", err)
	}
	return nil
}

// OpenLibrary opens the named profile's library for a session. The caller
// owns the returned store and must close it.
func (s *ProfileService) OpenLibrary(ctx context.Context, username string) (*storage.LibraryStore, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	store, err := storage.OpenLibrary(s.LibraryPath(username))
	if err != nil {
		return nil, fmt.Errorf("open library for %s: %w", username, err)
	}
	return store, nil
}

func (s *ProfileService) LibraryPath(username string) string {
	return storage.LibraryPath(s.dataDir, username)
}
