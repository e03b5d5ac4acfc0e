package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/amanthanvi/mediahub/internal/app"
	"github.com/amanthanvi/mediahub/internal/config"
	"github.com/amanthanvi/mediahub/internal/log"
	"github.com/amanthanvi/mediahub/internal/storage"
	"github.com/amanthanvi/mediahub/internal/tui"
)

// Swappable seams for tests.
var (
	loadConfigFn = config.Load
	newSessionFn = NewSession
	runTUIFn     = tui.Run

	stdioIsTTY = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	}
)

var _ tui.Client = (*Session)(nil)

// Session owns the process-wide runtime: config, the rotating log, the
// shared profile registry, and at most one open library at a time. It
// implements tui.Client so the interactive frontend runs on the same
// plumbing as the one-shot commands.
type Session struct {
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
	registry  *storage.RegistryStore
	profiles  *app.ProfileService

	mu       sync.Mutex
	profile  string
	library  *storage.LibraryStore
	media    *app.LibraryService
	transfer *app.TransferService
}

func NewSession(cfg config.Config) (*Session, error) {
	logger, closer, err := log.New(log.Options{
		Level: cfg.Logging.Level,
		Rotation: log.RotationConfig{
			File:      cfg.Logging.File,
			MaxSizeMB: cfg.Logging.MaxSizeMB,
			MaxFiles:  cfg.Logging.MaxFiles,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	registry, err := storage.OpenRegistry(storage.RegistryPath(cfg.Storage.DataDir))
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &Session{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		registry:  registry,
		profiles:  app.NewProfileService(registry.Users, cfg.Storage.DataDir),
	}, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.library != nil {
		errs = append(errs, s.closeLibraryLocked())
	}
	if s.registry != nil {
		errs = append(errs, s.registry.Close())
		s.registry = nil
	}
	if s.logCloser != nil {
		errs = append(errs, s.logCloser.Close())
		s.logCloser = nil
	}
	return errors.Join(errs...)
}

func (s *Session) DataDir() string {
	return s.cfg.Storage.DataDir
}

func (s *Session) ListProfiles(ctx context.Context) ([]storage.User, error) {
	return s.profiles.List(ctx)
}

func (s *Session) CreateProfile(ctx context.Context, username string) error {
	if err := s.profiles.Create(ctx, username); err != nil {
		return err
	}
	s.logger.Info("profile created", "username", strings.TrimSpace(username))
	return nil
}

// OpenProfile switches the session to the named profile's library. The
// profile must already be registered; opening never provisions one.
func (s *Session) OpenProfile(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeLibraryLocked(); err != nil {
		return err
	}

	exists, err := s.profileRegistered(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("profile %q: %w", username, storage.ErrNotFound)
	}

	library, err := s.profiles.OpenLibrary(ctx, username)
	if err != nil {
		return err
	}
	s.profile = username
	s.library = library
	s.media = app.NewLibraryService(library.Media)
	s.transfer = app.NewTransferService(library.Media, username)
	s.logger.Info("library opened", "username", username, "path", library.Path())
	return nil
}

func (s *Session) CloseProfile() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLibraryLocked()
}

func (s *Session) closeLibraryLocked() error {
	if s.library == nil {
		return nil
	}
	err := s.library.Close()
	s.logger.Info("library closed", "username", s.profile)
	s.profile = ""
	s.library = nil
	s.media = nil
	s.transfer = nil
	return err
}

func (s *Session) profileRegistered(ctx context.Context, username string) (bool, error) {
	users, err := s.registry.Users.List(ctx)
	if err != nil {
		return false, err
	}
	for _, user := range users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *Session) libraryService() (*app.LibraryService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media == nil {
		return nil, errors.New("no profile is open")
	}
	return s.media, nil
}

func (s *Session) transferService() (*app.TransferService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transfer == nil {
		return nil, errors.New("no profile is open")
	}
	return s.transfer, nil
}

func (s *Session) Items(ctx context.Context, filter app.Filter) ([]storage.MediaItem, error) {
	svc, err := s.libraryService()
	if err != nil {
		return nil, err
	}
	return svc.List(ctx, filter)
}

func (s *Session) Item(ctx context.Context, id int64) (*storage.MediaItem, error) {
	svc, err := s.libraryService()
	if err != nil {
		return nil, err
	}
	return svc.Get(ctx, id)
}

func (s *Session) CreateItem(ctx context.Context, item *storage.MediaItem) (int64, error) {
	svc, err := s.libraryService()
	if err != nil {
		return 0, err
	}
	id, err := svc.Create(ctx, item)
	if err != nil {
		return 0, err
	}
	s.logger.Info("item created", "id", id, "title", item.Title)
	return id, nil
}

func (s *Session) UpdateItem(ctx context.Context, item *storage.MediaItem) (bool, error) {
	svc, err := s.libraryService()
	if err != nil {
		return false, err
	}
	found, err := svc.Update(ctx, item)
	if err != nil {
		return false, err
	}
	s.logger.Info("item updated", "id", item.ID, "found", found)
	return found, nil
}

func (s *Session) DeleteItem(ctx context.Context, id int64) (bool, error) {
	svc, err := s.libraryService()
	if err != nil {
		return false, err
	}
	found, err := svc.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.logger.Info("item deleted", "id", id, "found", found)
	return found, nil
}

func (s *Session) Statistics(ctx context.Context) (*storage.Stats, error) {
	svc, err := s.libraryService()
	if err != nil {
		return nil, err
	}
	return svc.Statistics(ctx)
}

func (s *Session) ExportJSON(ctx context.Context) ([]byte, error) {
	svc, err := s.transferService()
	if err != nil {
		return nil, err
	}
	payload, err := svc.ExportJSON(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("library exported", "username", s.profile, "bytes", len(payload))
	return payload, nil
}

func (s *Session) ImportJSON(ctx context.Context, payload []byte, mode app.ConflictMode) (app.ImportCounts, error) {
	svc, err := s.transferService()
	if err != nil {
		return app.ImportCounts{}, err
	}
	counts, err := svc.ImportJSON(ctx, payload, mode)
	if err != nil {
		return app.ImportCounts{}, err
	}
	s.logger.Info("library imported",
		"username", s.profile, "created", counts.Created, "skipped", counts.Skipped)
	return counts, nil
}

func resolveConfig(deps commandDeps) (config.Config, error) {
	opts := config.LoadOptions{}
	if deps.globals != nil {
		opts.ConfigPath = strings.TrimSpace(deps.globals.ConfigPath)
		if dataDir := strings.TrimSpace(deps.globals.DataDir); dataDir != "" {
			opts.Flags.DataDir = &dataDir
		}
	}
	cfg, err := loadConfigFn(opts)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func withSession(cmdCtx context.Context, deps commandDeps, fn func(context.Context, *Session) error) error {
	cfg, err := resolveConfig(deps)
	if err != nil {
		return mapCommandError(err)
	}
	session, err := newSessionFn(cfg)
	if err != nil {
		return mapCommandError(err)
	}
	defer func() { _ = session.Close() }()

	return mapCommandError(fn(cmdCtx, session))
}

func runInteractive(deps commandDeps) error {
	cfg, err := resolveConfig(deps)
	if err != nil {
		return mapCommandError(err)
	}
	session, err := newSessionFn(cfg)
	if err != nil {
		return mapCommandError(err)
	}
	defer func() { _ = session.Close() }()

	return mapCommandError(runTUIFn(tui.Options{Client: session, IsTTY: stdioIsTTY}))
}

func printJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
