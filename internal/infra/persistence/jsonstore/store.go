// Package jsonstore persists the marketplace collections as whole JSON
// documents, one per collection, in a gocloud.dev blob bucket. A local
// directory (fileblob) is the default backing; tests use memblob.
//
// Every operation reads the full document and mutations write it back whole.
// Read-modify-write sequences are serialized per collection inside the
// process; nothing protects against a second process sharing the directory.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/errors"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob" // mem:// URLs
	"gocloud.dev/gcerrors"
)

// Collection names a persisted document.
type Collection string

const (
	Users         Collection = "users"
	Products      Collection = "products"
	Orders        Collection = "orders"
	Subscriptions Collection = "subscriptions"
	Transactions  Collection = "transactions"
	Deliveries    Collection = "deliveries"
)

// AllCollections lists every collection in bootstrap order.
var AllCollections = []Collection{Users, Products, Orders, Subscriptions, Transactions, Deliveries}

// ErrUnknownCollection is returned for names outside AllCollections.
var ErrUnknownCollection = errors.New("unknown collection")

const corruptSuffix = ".corrupt"

// initializedKey marks a bucket that has completed a first-run Initialize.
// Seeds are only ever written while it is absent.
const initializedKey = ".initialized"

var emptyArray = []byte("[]")

func (c Collection) key() string {
	return string(c) + ".json"
}

// SeedFunc returns the records written to a collection on first run.
type SeedFunc func() (any, error)

// Params configures a Store.
type Params struct {
	// Bucket, when set, is used as is and owned by the caller.
	Bucket *blob.Bucket
	// BucketURL is opened with blob.OpenBucket when Bucket is nil.
	BucketURL string
	// DataDir is the private directory used when neither Bucket nor BucketURL is set.
	DataDir string
	// Seeds provides first-run data per collection. Collections without a seed start empty.
	Seeds  map[Collection]SeedFunc
	Logger *slog.Logger
}

// Store is the storage substrate shared by all repositories.
type Store struct {
	params Params
	logger *slog.Logger

	openMu sync.Mutex
	bucket *blob.Bucket
	owned  bool

	locks map[Collection]*sync.Mutex
}

// New builds a Store. No I/O happens until EnsureReady or the first read.
func New(params Params) *Store {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	locks := make(map[Collection]*sync.Mutex, len(AllCollections))
	for _, c := range AllCollections {
		locks[c] = &sync.Mutex{}
	}

	return &Store{
		params: params,
		logger: logger.With(slog.String("component", "jsonstore")),
		bucket: params.Bucket,
		locks:  locks,
	}
}

// EnsureReady creates the backing directory if needed and opens the bucket.
// Repeated calls are no-ops.
func (s *Store) EnsureReady(ctx context.Context) error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if s.bucket != nil {
		return nil
	}

	if s.params.BucketURL != "" {
		bucket, err := blob.OpenBucket(ctx, s.params.BucketURL)
		if err != nil {
			return domainerrors.NewStorageError(errors.Wrapf(err, "open bucket %s", s.params.BucketURL), "*")
		}
		s.bucket, s.owned = bucket, true

		return nil
	}

	dir, err := filepath.Abs(s.params.DataDir)
	if err != nil {
		return errors.Wrap(err, "resolve data dir")
	}
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir:   true,
		DirFileMode: 0o700,
		NoTempDir:   true,
		Metadata:    fileblob.MetadataDontWrite,
	})
	if err != nil {
		return domainerrors.NewStorageError(errors.Wrapf(err, "open data dir %s", dir), "*")
	}
	s.bucket, s.owned = bucket, true
	s.logger.Debug("Data directory ready", slog.String("dir", dir))

	return nil
}

// Close releases the bucket if the Store opened it.
func (s *Store) Close() error {
	s.openMu.Lock()
	defer s.openMu.Unlock()

	if s.bucket == nil || !s.owned {
		return nil
	}
	err := s.bucket.Close()
	s.bucket = nil

	return errors.WithStack(err)
}

// Initialize writes seed data for every collection whose document is absent
// and then marks the bucket initialized. Existing documents are never touched,
// so calling it again is a no-op. Failures are logged and returned; callers
// should treat them as "data unavailable, retry later".
func (s *Store) Initialize(ctx context.Context) error {
	if err := s.EnsureReady(ctx); err != nil {
		s.logger.Error("Store initialization failed", slog.Any("error", err))

		return err
	}

	var errs []error
	for _, c := range AllCollections {
		lock := s.locks[c]
		lock.Lock()
		err := s.seedIfAbsent(ctx, c)
		lock.Unlock()

		if err != nil {
			s.logger.Error("Failed to initialize collection", slog.String("collection", string(c)), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return s.markInitialized(ctx)
}

func (s *Store) initialized(ctx context.Context) (bool, error) {
	done, err := s.bucket.Exists(ctx, initializedKey)
	if err != nil {
		return false, domainerrors.NewStorageError(errors.Wrap(err, "check initialization marker"), "*")
	}

	return done, nil
}

func (s *Store) markInitialized(ctx context.Context) error {
	done, err := s.initialized(ctx)
	if err != nil || done {
		return err
	}

	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	if err := s.bucket.WriteAll(ctx, initializedKey, stamp, nil); err != nil {
		s.logger.Error("Failed to mark store initialized", slog.Any("error", err))

		return domainerrors.NewStorageError(errors.Wrap(err, "write initialization marker"), "*")
	}

	return nil
}

// seedIfAbsent writes the document for c when it does not exist. Seed records
// are used only before the bucket is marked initialized; afterwards a lost
// document comes back empty so sample accounts never reappear in live data.
// Must be called with the collection lock held.
func (s *Store) seedIfAbsent(ctx context.Context, c Collection) error {
	exists, err := s.bucket.Exists(ctx, c.key())
	if err != nil {
		return domainerrors.NewStorageError(errors.Wrap(err, "check document"), string(c))
	}
	if exists {
		return nil
	}

	done, err := s.initialized(ctx)
	if err != nil {
		return err
	}

	data := emptyArray
	seed, hasSeed := s.params.Seeds[c]
	switch {
	case done:
		s.logger.Error("Collection document lost after initialization, recreating it empty",
			slog.String("collection", string(c)))
	case hasSeed && seed != nil:
		records, err := seed()
		if err != nil {
			return errors.Wrapf(err, "build seed for %s", c)
		}
		if data, err = json.MarshalIndent(records, "", "  "); err != nil {
			return errors.Wrapf(err, "marshal seed for %s", c)
		}
	}

	if err := s.bucket.WriteAll(ctx, c.key(), data, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		return domainerrors.NewStorageError(errors.Wrap(err, "write seed"), string(c))
	}
	s.logger.Info("Seeded collection", slog.String("collection", string(c)))

	return nil
}

func (s *Store) lockFor(c Collection) (*sync.Mutex, error) {
	lock, ok := s.locks[c]
	if !ok {
		return nil, errors.Wrap(ErrUnknownCollection, string(c))
	}

	return lock, nil
}

// readLocked returns the document bytes, self-healing missing or malformed
// documents once. decode is applied to the bytes; a decode failure counts as
// malformed. Must be called with the collection lock held.
func (s *Store) readLocked(ctx context.Context, c Collection, decode func([]byte) error) error {
	if err := s.EnsureReady(ctx); err != nil {
		return err
	}

	for attempt := range 2 {
		data, err := s.bucket.ReadAll(ctx, c.key())
		switch {
		case err == nil:
			decodeErr := decode(data)
			if decodeErr == nil {
				return nil
			}
			s.logger.Error("Malformed collection document", slog.String("collection", string(c)), slog.Any("error", decodeErr))
			s.quarantine(ctx, c, data)
		case gcerrors.Code(err) == gcerrors.NotFound:
			s.logger.Warn("Collection document missing", slog.String("collection", string(c)))
		default:
			s.logger.Error("Failed to read collection", slog.String("collection", string(c)), slog.Any("error", err))

			return domainerrors.NewStorageError(errors.Wrap(err, "read document"), string(c))
		}

		if attempt == 0 {
			if err := s.seedIfAbsent(ctx, c); err != nil {
				s.logger.Error("Self-heal failed", slog.String("collection", string(c)), slog.Any("error", err))
			}
		}
	}

	return decode(emptyArray)
}

// quarantine moves a malformed document aside so that self-heal can replace
// it without losing the bytes.
func (s *Store) quarantine(ctx context.Context, c Collection, data []byte) {
	key := c.key() + corruptSuffix
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		s.logger.Error("Failed to quarantine malformed document", slog.String("collection", string(c)), slog.Any("error", err))

		return
	}
	if err := s.bucket.Delete(ctx, c.key()); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		s.logger.Error("Failed to remove malformed document", slog.String("collection", string(c)), slog.Any("error", err))

		return
	}
	s.logger.Warn("Malformed document quarantined", slog.String("collection", string(c)), slog.String("key", key))
}

func (s *Store) writeLocked(ctx context.Context, c Collection, v any) error {
	if err := s.EnsureReady(ctx); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", c)
	}
	if bytes.Equal(data, []byte("null")) {
		data = emptyArray
	}

	if err := s.bucket.WriteAll(ctx, c.key(), data, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		s.logger.Error("Failed to write collection", slog.String("collection", string(c)), slog.Any("error", err))

		return domainerrors.NewStorageError(errors.Wrap(err, "write document"), string(c))
	}

	return nil
}

// decodeInto decodes a JSON array into out. Null elements are dropped with a
// warning; the next write of the collection removes them from the document.
func decodeInto[T any](s *Store, c Collection, out *[]T) func([]byte) error {
	return func(data []byte) error {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}

		items := make([]T, 0, len(raw))
		dropped := 0
		for _, element := range raw {
			if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
				dropped++

				continue
			}
			var item T
			if err := json.Unmarshal(element, &item); err != nil {
				return err
			}
			items = append(items, item)
		}
		if dropped > 0 {
			s.logger.Warn("Dropping null records", slog.String("collection", string(c)), slog.Int("count", dropped))
		}
		*out = items

		return nil
	}
}

// ReadCollection returns every record of the collection. A missing or
// malformed document is re-initialized once; if it still cannot be read the
// result is empty. Other storage failures are returned as StorageError.
func ReadCollection[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	lock, err := s.lockFor(c)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	var items []T
	if err := s.readLocked(ctx, c, decodeInto(s, c, &items)); err != nil {
		return nil, err
	}

	return items, nil
}

// WriteCollection replaces the whole document with items.
func WriteCollection[T any](ctx context.Context, s *Store, c Collection, items []T) error {
	lock, err := s.lockFor(c)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	return s.writeLocked(ctx, c, items)
}

// Mutate runs a read-modify-write of the collection under its lock. When fn
// returns an error nothing is written.
func Mutate[T any](ctx context.Context, s *Store, c Collection, fn func([]T) ([]T, error)) error {
	lock, err := s.lockFor(c)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	var items []T
	if err := s.readLocked(ctx, c, decodeInto(s, c, &items)); err != nil {
		return err
	}

	updated, err := fn(items)
	if err != nil {
		return err
	}

	return s.writeLocked(ctx, c, updated)
}
