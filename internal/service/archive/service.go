// Package archive keeps named profile documents on the server's
// filesystem, one JSON file per profile, with optional read-only
// protection.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

const fileExt = ".json"

// Entry describes one archived profile.
type Entry struct {
	Filename string
	ReadOnly bool
	SavedAt  time.Time
	Size     int64
	// Corrupt is set when the file could not be parsed. ReadOnly is then
	// false.
	Corrupt bool
}

// Service is a filesystem-backed profile archive.
type Service struct {
	dir      string
	maxBytes int64

	// mu serializes the read-check-write sequences of Save and Delete.
	mu sync.Mutex

	log *slog.Logger
	now func() time.Time
}

// NewService creates the archive directory if needed. Documents whose
// serialized size exceeds maxBytes are refused.
func NewService(log *slog.Logger, dir string, maxBytes int64) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	return &Service{
		dir:      dir,
		maxBytes: maxBytes,
		log:      log.With("service", "archive"),
		now:      time.Now,
	}, nil
}

// Key maps a user-supplied profile name to its archive filename: a
// trailing ".json" is dropped, every character outside [A-Za-z0-9._-]
// becomes '_', and ".json" is appended. Distinct names can share a key.
func Key(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), fileExt)
	if name == "" {
		return "", domain.NewValidationError("filename", "required")
	}
	return domain.SafeFilename(name) + fileExt, nil
}

// envelope is the part of an archived file that the archive itself reads.
type envelope struct {
	ReadOnly bool      `json:"readOnly"`
	SavedAt  time.Time `json:"savedAt"`
}

// readEnvelope loads the envelope of an existing file. It returns
// domain.ErrNotFound for a missing file and domain.ErrCorrupt for one that
// does not parse.
func (s *Service) readEnvelope(path string) (envelope, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return envelope{}, domain.ErrNotFound
	}
	if err != nil {
		return envelope{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("parse %s: %w: %v", filepath.Base(path), domain.ErrCorrupt, err)
	}
	return env, nil
}

// Save stores doc under the key of name, replacing an existing entry
// unless that entry is read-only.
func (s *Service) Save(ctx context.Context, doc *domain.ProfileDocument, name string, readOnly bool) (Entry, error) {
	key, err := Key(name)
	if err != nil {
		return Entry{}, err
	}
	if doc == nil {
		return Entry{}, domain.NewValidationError("profile", "required")
	}

	archived := domain.ArchivedProfile{
		ProfileDocument: *doc,
		ReadOnly:        readOnly,
		SavedAt:         s.now().UTC(),
	}
	data, err := json.MarshalIndent(archived, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("marshal profile: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return Entry{}, fmt.Errorf("profile %s is %d bytes, limit %d: %w", key, len(data), s.maxBytes, domain.ErrTooLarge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, key)
	env, err := s.readEnvelope(path)
	switch {
	case err == nil && env.ReadOnly:
		return Entry{}, fmt.Errorf("profile %s: %w", key, domain.ErrReadOnly)
	case err == nil, errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCorrupt):
	default:
		return Entry{}, err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Entry{}, fmt.Errorf("write profile %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return Entry{}, fmt.Errorf("rename profile %s: %w", key, err)
	}

	s.log.InfoContext(ctx, "profile saved",
		slog.String("filename", key),
		slog.Bool("read_only", readOnly),
		slog.Int("bytes", len(data)),
	)

	return Entry{
		Filename: key,
		ReadOnly: readOnly,
		SavedAt:  archived.SavedAt,
		Size:     int64(len(data)),
	}, nil
}

// List returns all archived profiles sorted by filename. Files that do not
// parse are listed as corrupt.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	out := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}
		entry := Entry{Filename: de.Name()}
		if info, err := de.Info(); err == nil {
			entry.Size = info.Size()
		}

		env, err := s.readEnvelope(filepath.Join(s.dir, de.Name()))
		switch {
		case err == nil:
			entry.ReadOnly = env.ReadOnly
			entry.SavedAt = env.SavedAt
		case errors.Is(err, domain.ErrNotFound):
			// Removed since ReadDir.
			continue
		case errors.Is(err, domain.ErrCorrupt):
			s.log.WarnContext(ctx, "corrupt archived profile", slog.String("filename", de.Name()), slog.String("error", err.Error()))
			entry.Corrupt = true
		default:
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// Load returns the archived document including its envelope fields.
func (s *Service) Load(_ context.Context, name string) (*domain.ArchivedProfile, error) {
	key, err := Key(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("profile %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", key, err)
	}

	var p domain.ArchivedProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w: %v", key, domain.ErrCorrupt, err)
	}
	return &p, nil
}

// Delete removes an archived profile. Read-only entries are refused; an
// entry whose content cannot be parsed is removed anyway.
func (s *Service) Delete(ctx context.Context, name string) error {
	key, err := Key(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, key)
	env, err := s.readEnvelope(path)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("profile %s: %w", key, domain.ErrNotFound)
	case err == nil && env.ReadOnly:
		return fmt.Errorf("profile %s: %w", key, domain.ErrReadOnly)
	case err == nil:
	case errors.Is(err, domain.ErrCorrupt):
		s.log.WarnContext(ctx, "deleting corrupt archived profile", slog.String("filename", key))
	default:
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("profile %s: %w", key, domain.ErrNotFound)
		}
		return fmt.Errorf("delete profile %s: %w", key, err)
	}

	s.log.InfoContext(ctx, "profile deleted", slog.String("filename", key))
	return nil
}
