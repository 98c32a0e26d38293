// Package kv implements the small settings area that holds the session,
// separately from the document store.
package kv

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
	"gopkg.in/yaml.v3"
)

// fileStore keeps all keys in one YAML mapping, stored as a single object in
// a fileblob bucket rooted at the file's directory. fileblob replaces the
// object through a temp file and a rename.
type fileStore struct {
	mu     sync.Mutex
	dir    string
	key    string
	bucket *blob.Bucket
	logger *slog.Logger
}

// NewFileStore returns a KeyValueStore backed by the YAML file at path. The
// directory is created on first use.
func NewFileStore(path string, logger *slog.Logger) repository.KeyValueStore {
	return newFileStore(path, logger)
}

func newFileStore(path string, logger *slog.Logger) *fileStore {
	return &fileStore{
		dir:    filepath.Dir(path),
		key:    filepath.Base(path),
		logger: logger.With(slog.String("component", "filekv")),
	}
}

// open must be called with mu held.
func (s *fileStore) open() (*blob.Bucket, error) {
	if s.bucket != nil {
		return s.bucket, nil
	}

	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve settings dir")
	}
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir:   true,
		DirFileMode: 0o700,
		NoTempDir:   true,
		Metadata:    fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open settings dir")
	}
	s.bucket = bucket

	return bucket, nil
}

// Close releases the bucket. The store reopens it on next use.
func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bucket == nil {
		return nil
	}
	err := s.bucket.Close()
	s.bucket = nil

	return errors.WithStack(err)
}

func (s *fileStore) load(ctx context.Context) (map[string]string, error) {
	bucket, err := s.open()
	if err != nil {
		return nil, err
	}

	data, err := bucket.ReadAll(ctx, s.key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read settings file")
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		// A damaged settings file only costs the session; start over.
		s.logger.Warn("Ignoring unreadable settings file", slog.String("key", s.key), slog.Any("error", err))

		return map[string]string{}, nil
	}

	return values, nil
}

func (s *fileStore) save(ctx context.Context, values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}

	bucket, err := s.open()
	if err != nil {
		return err
	}

	if err := bucket.WriteAll(ctx, s.key, data, &blob.WriterOptions{ContentType: "application/yaml"}); err != nil {
		return errors.Wrap(err, "write settings file")
	}

	// fileblob creates files world-readable; the session is private.
	return errors.Wrap(os.Chmod(filepath.Join(s.dir, s.key), 0o600), "restrict settings file")
}

func (s *fileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]

	return value, ok, nil
}

func (s *fileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load(ctx)
	if err != nil {
		return err
	}
	values[key] = value

	return s.save(ctx, values)
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	return s.save(ctx, values)
}
