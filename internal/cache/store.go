// Package cache is the file-backed JSON store behind every pipeline
// stage. A document's presence at its deterministic path is the sole
// source of truth for "already processed"; there is no separate index.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gofrs/flock"
)

// Transcripts is the namespace for raw transcript documents.
const Transcripts = "transcripts"

// QuestionsNamespace returns the per-model namespace for parsed question
// documents. Distinct models never collide, so multiple models' outputs
// coexist for the same video.
func QuestionsNamespace(model string) string {
	return "questions/" + model
}

// ErrNotFound is returned by Read when no document exists for the key.
var ErrNotFound = errors.New("cache entry not found")

// CorruptError is returned by Read when a stored document does not parse.
// Callers treat it as a per-item error; it must never crash a stage loop.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt cache entry %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Identifiers are YouTube video IDs; namespaces are fixed strings plus
// model names. Restricting both keeps path construction injective and
// rules out traversal.
var (
	validID      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	validSegment = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Store maps (namespace, identifier) keys to JSON documents under a
// single root directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at root. The root is created lazily by
// the first Write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the configured root directory.
func (s *Store) Root() string { return s.root }

// Path returns the deterministic location for a key. It errors on
// malformed namespaces or identifiers rather than producing a path that
// could collide with another key.
func (s *Store) Path(namespace, id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("invalid cache identifier %q", id)
	}
	segments := strings.Split(namespace, "/")
	for _, seg := range segments {
		if !validSegment.MatchString(seg) {
			return "", fmt.Errorf("invalid cache namespace %q", namespace)
		}
	}
	parts := append([]string{s.root}, segments...)
	parts = append(parts, id+".json")
	return filepath.Join(parts...), nil
}

// Exists reports whether a document is present for the key. It never
// errors for a well-formed missing key.
func (s *Store) Exists(namespace, id string) bool {
	path, err := s.Path(namespace, id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read loads the document for the key into v. It returns ErrNotFound if
// absent and *CorruptError if the stored bytes do not parse.
func (s *Store) Read(namespace, id string, v any) error {
	path, err := s.Path(namespace, id)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, namespace, id)
		}
		return fmt.Errorf("read cache entry %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	return nil
}

// Write persists v for the key, creating intermediate directories and
// overwriting any prior document. The document is written to a temporary
// file and renamed so a failed write never leaves a partial entry that
// Exists would report as present.
func (s *Store) Write(namespace, id string, v any) error {
	path, err := s.Path(namespace, id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry %s/%s: %w", namespace, id, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-"+id+"-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache entry %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish cache entry %s: %w", path, err)
	}
	return nil
}

// List returns the sorted identifiers present in a namespace. A missing
// namespace directory lists as empty.
func (s *Store) List(namespace string) ([]string, error) {
	probe, err := s.Path(namespace, "probe")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(probe))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list cache namespace %s: %w", namespace, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// AcquireLock takes an advisory lock on the cache root, failing fast if
// another run already holds it. Concurrent runs against the same root are
// not otherwise safe. The returned function releases the lock.
func (s *Store) AcquireLock() (func(), error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root %s: %w", s.root, err)
	}
	lock := flock.New(filepath.Join(s.root, ".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock cache root %s: %w", s.root, err)
	}
	if !ok {
		return nil, fmt.Errorf("cache root %s is locked by another run", s.root)
	}
	return func() { _ = lock.Unlock() }, nil
}
