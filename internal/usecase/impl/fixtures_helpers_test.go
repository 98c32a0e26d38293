package impl

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/domain/service"
	"milkrun/internal/infra/auth"
	"milkrun/internal/infra/kv"
	"milkrun/internal/infra/persistence/jsonstore"
	"milkrun/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtures wires every service over a seeded in-memory store and a session
// file in a temp dir.
type fixtures struct {
	store    *jsonstore.Store
	sessions repository.KeyValueStore
	hasher   service.PasswordHasher

	users         repository.UserRepository
	products      repository.ProductRepository
	orders        repository.OrderRepository
	subscriptions repository.SubscriptionRepository
	transactions  repository.TransactionRepository
	deliveries    repository.DeliveryRepository

	auth         usecase.AuthUsecase
	marketplace  usecase.MarketplaceUsecase
	orderSvc     usecase.OrderUsecase
	subscribeSvc usecase.SubscriptionUsecase
	catalog      usecase.CatalogUsecase
	approval     usecase.VendorApprovalUsecase
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	return newFixturesWithSessions(t, nil)
}

func newFixturesWithSessions(t *testing.T, sessions repository.KeyValueStore) *fixtures {
	t.Helper()

	logger := newDiscardLogger()
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	store := jsonstore.New(jsonstore.Params{
		Bucket: bucket,
		Seeds:  jsonstore.DefaultSeeds(hasher),
		Logger: logger,
	})
	require.NoError(t, store.Initialize(context.Background()))

	if sessions == nil {
		sessions = kv.NewFileStore(filepath.Join(t.TempDir(), "session.yaml"), logger)
	}

	f := &fixtures{
		store:         store,
		sessions:      sessions,
		hasher:        hasher,
		users:         jsonstore.NewUserRepository(store),
		products:      jsonstore.NewProductRepository(store),
		orders:        jsonstore.NewOrderRepository(store),
		subscriptions: jsonstore.NewSubscriptionRepository(store),
		transactions:  jsonstore.NewTransactionRepository(store),
		deliveries:    jsonstore.NewDeliveryRepository(store),
	}

	f.auth = NewAuthService(AuthServiceParams{
		Users: f.users, Sessions: sessions, Hasher: hasher, Logger: logger,
	})
	f.marketplace = NewMarketplaceService(MarketplaceServiceParams{
		Users: f.users, Products: f.products, Orders: f.orders,
		Subscriptions: f.subscriptions, Transactions: f.transactions, Logger: logger,
	})
	f.orderSvc = NewOrderService(OrderServiceParams{
		Users: f.users, Products: f.products, Orders: f.orders, Transactions: f.transactions, Logger: logger,
	})
	f.subscribeSvc = NewSubscriptionService(SubscriptionServiceParams{
		Users: f.users, Products: f.products, Subscriptions: f.subscriptions,
		Transactions: f.transactions, Deliveries: f.deliveries, QRCode: stubQRCode{}, Logger: logger,
	})
	f.catalog = NewCatalogService(CatalogServiceParams{
		Users: f.users, Products: f.products, Orders: f.orders, Logger: logger,
	})
	f.approval = NewVendorApprovalService(VendorApprovalServiceParams{Users: f.users, Logger: logger})

	return f
}

// stubQRCode treats the scanned payload as "vendor:<id>".
type stubQRCode struct{}

func (stubQRCode) GenerateVendorQR(vendorID string) ([]byte, error) {
	return []byte("png:" + vendorID), nil
}

func (stubQRCode) ParseVendorQR(qrData string) (string, error) {
	const prefix = "vendor:"
	if len(qrData) <= len(prefix) || qrData[:len(prefix)] != prefix {
		return "", domainerrors.ErrInvalidQRCode
	}

	return qrData[len(prefix):], nil
}

// mockKeyValueStore lets tests inject session storage failures.
type mockKeyValueStore struct {
	mock.Mock
}

func (m *mockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)

	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockKeyValueStore) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockKeyValueStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func ptr[T any](v T) *T {
	return &v
}
