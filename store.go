package hoydedata

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const (
	archiveSuffix  = ".zip"
	mountDirSuffix = ".dir"
)

// A Store locates tile files below a root directory and mounts the archives
// that contain them.
type Store struct {
	mutex   sync.Mutex
	dir     string
	mounter Mounter
	logger  *slog.Logger
	mounts  map[string]string
}

// A StoreOption sets an option on a Store.
type StoreOption func(*Store)

// NewStore returns a new Store rooted at dir, or the current directory if
// dir is empty.
func NewStore(dir string, options ...StoreOption) *Store {
	s := &Store{
		dir:     cmp.Or(dir, "."),
		mounter: FuseZipMounter{},
		logger:  slog.New(slog.DiscardHandler),
		mounts:  make(map[string]string),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// WithLogger sets the logger that receives progress messages.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMounter sets the Mounter that mounts archives.
func WithMounter(mounter Mounter) StoreOption {
	return func(s *Store) {
		s.mounter = mounter
	}
}

// Dir returns s's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Logger returns s's logger.
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// Path returns the filesystem path of name, which is slash-separated and
// relative to s's root directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

// ReadDir returns the entries of the directory name, sorted by filename.
func (s *Store) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(s.Path(name))
}

// MountArchive mounts the archive name, if it is not already mounted, and
// returns the directory, relative to s's root directory, containing its
// contents.
func (s *Store) MountArchive(name string) (string, error) {
	if !strings.HasSuffix(name, archiveSuffix) {
		return "", fmt.Errorf("%s: not a %s archive", name, archiveSuffix)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if dir, ok := s.mounts[name]; ok {
		return dir, nil
	}

	dir := path.Clean(name + mountDirSuffix)
	if err := os.MkdirAll(s.Path(dir), 0o755); err != nil {
		return "", err
	}
	if err := s.mounter.Mount(s.Path(name), s.Path(dir)); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	s.mounts[name] = dir
	archiveMounts.Inc()
	s.logger.Info("mounted archive", "archive", name, "dir", dir)
	return dir, nil
}

// Mounted returns the names of all mounted archives, sorted.
func (s *Store) Mounted() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	names := make([]string, 0, len(s.mounts))
	for name := range s.mounts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close unmounts all archives mounted by s and removes their mount
// directories.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var errs []error
	for name, dir := range s.mounts {
		if err := s.mounter.Unmount(s.Path(dir)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := os.Remove(s.Path(dir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
		delete(s.mounts, name)
	}
	return errors.Join(errs...)
}
