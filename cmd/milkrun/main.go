package main

import (
	"context"
	"log/slog"
	"os"

	"milkrun/config"
	"milkrun/internal/delivery"
	"milkrun/internal/delivery/api"
	"milkrun/internal/delivery/api/middleware"
	"milkrun/internal/delivery/api/router/handler"
	"milkrun/internal/domain/service"
	"milkrun/internal/infra/auth"
	"milkrun/internal/infra/kv"
	logs "milkrun/internal/infra/log"
	"milkrun/internal/infra/persistence/jsonstore"
	"milkrun/internal/infra/qrcode"
	"milkrun/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			bootstrapStore,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newStore,
		kv.NewKeyValueStore,
	)
}

// newStore opens nothing yet; bootstrapStore does the first I/O.
func newStore(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger, hasher service.PasswordHasher) *jsonstore.Store {
	params := jsonstore.Params{
		BucketURL: cfg.Storage.BucketURL,
		DataDir:   cfg.Storage.DataDir,
		Logger:    logger,
	}
	if cfg.Storage.Seed {
		params.Seeds = jsonstore.DefaultSeeds(hasher)
	}

	store := jsonstore.New(params)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})

	return store
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			jsonstore.NewUserRepository,
			jsonstore.NewProductRepository,
			jsonstore.NewOrderRepository,
			jsonstore.NewSubscriptionRepository,
			jsonstore.NewTransactionRepository,
			jsonstore.NewDeliveryRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			qrcode.NewQRCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewMarketplaceService,
			impl.NewOrderService,
			impl.NewSubscriptionService,
			impl.NewCatalogService,
			impl.NewVendorApprovalService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewSessionMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewMarketplaceHandler,
			handler.NewCatalogHandler,
			handler.NewOrderHandler,
			handler.NewSubscriptionHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// bootstrapStore creates the data directory and seeds missing collections.
// A failure leaves the API up; every request will report storage as unavailable
// until the directory becomes usable.
func bootstrapStore(ctx context.Context, store *jsonstore.Store, logger *slog.Logger) {
	if err := store.Initialize(ctx); err != nil {
		logger.Error("Starting without initialized storage", slog.Any("error", err))
	}
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
