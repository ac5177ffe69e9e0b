package avatar

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/birozsombor4/rest-api-template/internal/domain"
)

// Content types accepted on upload. "jpeg/png" is a legacy alias some older
// clients send for jpg/jpeg uploads and has to keep working.
var supportedContentTypes = []string{"jpeg/png", "image/png", "image/jpeg"}

// Store keeps user avatars as flat files named <userID><ext> under one root
// directory. Overwrite atomicity is delegated to rename(2); there is no
// locking here and none is needed per file name.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore creates the root directory if it does not exist yet.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if _, err := os.Stat(root); err != nil {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, domain.NewError(domain.KindDirCreateFailed, root)
		}
	}
	return &Store{root: root, logger: logger.With("component", "avatar_store")}, nil
}

// Root returns the directory the store writes under.
func (s *Store) Root() string {
	return s.root
}

// Save validates the upload and stores it as <ownerID><ext>, where ext is the
// extension of the original filename. An existing file of that exact name is
// replaced atomically; a previous upload under a different extension is left
// behind (known gap, overwrite is by exact name, not by owner).
func (s *Store) Save(r io.Reader, contentType, originalFilename string, ownerID int) (string, error) {
	if !contentTypeSupported(contentType) {
		return "", domain.NewError(domain.KindUnsupportedContentType, contentType)
	}
	dot := strings.LastIndex(originalFilename, ".")
	if dot < 0 {
		return "", domain.NewError(domain.KindUnsupportedFilename, "Filename should has extension.")
	}

	newName := strconv.Itoa(ownerID) + originalFilename[dot:]
	if err := s.writeAtomic(newName, r); err != nil {
		s.logger.Error("avatar save", "filename", originalFilename, "error", err)
		return "", domain.NewError(domain.KindFileSaveFailed, originalFilename)
	}
	return newName, nil
}

// writeAtomic writes to a temp file in the root and renames it into place so
// a concurrent reader never observes a half-written avatar.
func (s *Store) writeAtomic(name string, r io.Reader) error {
	tmp, err := os.CreateTemp(s.root, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.root, name))
}

// Load opens a stored avatar for reading. Existence is checked up front, a
// missing file is a load failure rather than a raw fs error.
func (s *Store) Load(filename string) (*os.File, error) {
	path := filepath.Join(s.root, filename)
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewError(domain.KindFileLoadFailed, filename)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewError(domain.KindFileLoadFailed, filename)
	}
	return f, nil
}

// Exists reports whether filename is present under the root.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.root, filename))
	return err == nil
}

// Delete removes one stored avatar. Not-found counts as a delete failure.
func (s *Store) Delete(filename string) error {
	if err := os.Remove(filepath.Join(s.root, filename)); err != nil {
		return domain.NewError(domain.KindFileDeleteFailed, filename)
	}
	return nil
}

// DeleteAllCustom removes every file in the root whose name does not contain
// "default". Individual failures are logged and swallowed, the cleanup is
// best effort.
func (s *Store) DeleteAllCustom() {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.logger.Warn("avatar cleanup: read root", "error", err)
		return
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "default") {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, entry.Name())); err != nil {
			s.logger.Warn("avatar cleanup: remove", "filename", entry.Name(), "error", err)
		}
	}
}

// ContentTypeFor derives the MIME type from substrings of the stored name.
// The precedence and case sensitivity are load-bearing: lowercase jpg/jpeg
// maps to the legacy "jpeg/png" alias while uppercase JPG/JPEG maps to
// image/jpeg. Clients depend on the alias, so this is matched verbatim.
func (s *Store) ContentTypeFor(filename string) (string, error) {
	switch {
	case strings.Contains(filename, ".png"):
		return "image/png", nil
	case strings.Contains(filename, "jpg") || strings.Contains(filename, "jpeg"):
		return "jpeg/png", nil
	case strings.Contains(filename, "JPG") || strings.Contains(filename, "JPEG"):
		return "image/jpeg", nil
	default:
		return "", domain.NewError(domain.KindUnsupportedContentType, filename)
	}
}

func contentTypeSupported(contentType string) bool {
	for _, ct := range supportedContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}
