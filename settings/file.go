package settings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/sculpt/provider"
)

// Format is the on-disk encoding of a settings file.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from the file extension. Anything that is
// not .yaml or .yml is TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// DefaultPath returns the settings file location under the user's config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "sculpt", "settings.toml"), nil
}

// FileStore is a Store backed by a file. Reads are served from memory; the
// file is read once at open and again whenever Watch sees it change.
type FileStore struct {
	path   string
	format Format

	mu  sync.RWMutex
	cfg provider.Config
}

// OpenFileStore opens the settings file at path. A missing file is not an
// error: the store starts from provider.DefaultConfig() and the file is
// created on the first Set.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		format: FormatForPath(path),
		cfg:    provider.DefaultConfig(),
	}

	cfg, err := s.load()
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		s.cfg = cfg
	}
	return s, nil
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store.
func (s *FileStore) Get() provider.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Set implements Store. The file is replaced atomically.
func (s *FileStore) Set(cfg provider.Config) error {
	data, err := encode(s.format, cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Reload re-reads the file. A missing file resets the store to defaults.
func (s *FileStore) Reload() (provider.Config, error) {
	cfg, err := s.load()
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = provider.DefaultConfig(), nil
	}
	if err != nil {
		return s.Get(), err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cfg, nil
}

// Watch follows the settings file and reloads it when another process
// writes it. onChange, if non-nil, receives each successfully reloaded
// config. Parse failures are logged and the previous config is kept.
// Watch blocks until ctx is cancelled.
func (s *FileStore) Watch(ctx context.Context, onChange func(provider.Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory (editors replace files rather than write them).
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	baseName := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			prev := s.Get()
			cfg, err := s.Reload()
			if err != nil {
				slog.Warn("settings reload failed, keeping previous config",
					slog.String("path", s.path),
					slog.Any("error", err))
				continue
			}
			if cfg != prev && onChange != nil {
				onChange(cfg)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Debug("settings watcher error", slog.Any("error", err))
		}
	}
}

func (s *FileStore) load() (provider.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return provider.Config{}, err
	}
	return decode(s.format, data)
}

// document is the file layout: the config nested under Key.
type document map[string]provider.Config

func encode(format Format, cfg provider.Config) ([]byte, error) {
	doc := document{Key: cfg}

	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode yaml settings: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode toml settings: %w", err)
		}
		return buf.Bytes(), nil
	}
}

func decode(format Format, data []byte) (provider.Config, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return provider.Config{}, fmt.Errorf("decode yaml settings: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return provider.Config{}, fmt.Errorf("decode toml settings: %w", err)
		}
	}

	cfg, ok := doc[Key]
	if !ok {
		return provider.DefaultConfig(), nil
	}
	if cfg.Provider == "" {
		cfg.Provider = provider.DefaultConfig().Provider
	}
	return cfg, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
