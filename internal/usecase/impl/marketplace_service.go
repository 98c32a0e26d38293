package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const unknownName = "Unknown"

type marketplaceService struct {
	users         repository.UserRepository
	products      repository.ProductRepository
	orders        repository.OrderRepository
	subscriptions repository.SubscriptionRepository
	transactions  repository.TransactionRepository
	logger        *slog.Logger
	now           func() time.Time
}

// MarketplaceServiceParams holds dependencies for MarketplaceService, injected by Fx.
type MarketplaceServiceParams struct {
	fx.In

	Users         repository.UserRepository
	Products      repository.ProductRepository
	Orders        repository.OrderRepository
	Subscriptions repository.SubscriptionRepository
	Transactions  repository.TransactionRepository
	Logger        *slog.Logger
}

// NewMarketplaceService is the constructor for marketplaceService.
func NewMarketplaceService(params MarketplaceServiceParams) usecase.MarketplaceUsecase {
	return &marketplaceService{
		users:         params.Users,
		products:      params.Products,
		orders:        params.Orders,
		subscriptions: params.Subscriptions,
		transactions:  params.Transactions,
		logger:        params.Logger,
		now:           time.Now,
	}
}

func (srv *marketplaceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// load runs the loaders concurrently and returns the first error.
func load(ctx context.Context, loaders ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fn := range loaders {
		g.Go(func() error { return fn(gctx) })
	}

	return g.Wait()
}

func into[T any](dst *T, fn func(context.Context) (T, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = v

		return nil
	}
}

func (srv *marketplaceService) ApprovedVendors(ctx context.Context) ([]*entity.PublicUser, error) {
	vendors, err := srv.users.GetByRole(ctx, entity.RoleVendor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendors")
	}

	approved := make([]*entity.User, 0, len(vendors))
	for _, v := range vendors {
		if v.IsDiscoverable() {
			approved = append(approved, v)
		}
	}

	return publicUsers(approved), nil
}

func (srv *marketplaceService) VendorNameForProduct(ctx context.Context, productID string) (string, error) {
	product, err := srv.products.GetByID(ctx, productID)
	if err != nil {
		return "", translate(err)
	}

	vendor, err := srv.users.GetByID(ctx, product.VendorID)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Product references a missing vendor", slog.String("productID", productID), slog.String("vendorID", product.VendorID))

		return unknownName, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to load vendor")
	}

	return vendor.DisplayName(), nil
}

func (srv *marketplaceService) ProductsForApprovedVendors(ctx context.Context, category string) ([]*usecase.ProductWithVendor, error) {
	var (
		users    []*entity.User
		products []*entity.Product
	)
	if err := load(ctx, into(&users, srv.users.GetAll), into(&products, srv.products.GetAll)); err != nil {
		return nil, errors.Wrap(err, "failed to load catalogue")
	}

	byID := indexUsers(users)
	out := make([]*usecase.ProductWithVendor, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		vendor, ok := byID[p.VendorID]
		if !ok || !vendor.IsDiscoverable() {
			continue
		}
		out = append(out, &usecase.ProductWithVendor{Product: p, VendorName: vendor.DisplayName()})
	}

	return out, nil
}

func (srv *marketplaceService) SubscriptionsWithVendor(ctx context.Context, userID string) ([]*usecase.SubscriptionWithVendor, error) {
	var (
		subs     []*entity.Subscription
		users    []*entity.User
		products []*entity.Product
	)
	err := load(ctx,
		into(&subs, func(ctx context.Context) ([]*entity.Subscription, error) { return srv.subscriptions.GetByUser(ctx, userID) }),
		into(&users, srv.users.GetAll),
		into(&products, srv.products.GetAll),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load subscriptions")
	}

	usersByID, productsByID := indexUsers(users), indexProducts(products)
	out := make([]*usecase.SubscriptionWithVendor, 0, len(subs))
	for _, s := range subs {
		enriched := &usecase.SubscriptionWithVendor{Subscription: s, VendorName: unknownName}
		if vendor, ok := usersByID[s.VendorID]; ok {
			enriched.VendorName = vendor.DisplayName()
			enriched.VendorPhone = vendor.ProfileInfo.Phone
		} else {
			srv.log(ctx).Warn("Subscription references a missing vendor", slog.String("subscriptionID", s.ID), slog.String("vendorID", s.VendorID))
		}
		if p, ok := productsByID[s.ProductID]; ok {
			enriched.ProductName = p.Name
		}
		out = append(out, enriched)
	}

	return out, nil
}

func (srv *marketplaceService) OrdersWithDetails(ctx context.Context, vendorID string) ([]*usecase.OrderDetails, error) {
	return srv.ordersWithDetails(ctx, func(ctx context.Context) ([]*entity.Order, error) {
		return srv.orders.GetByVendor(ctx, vendorID)
	})
}

func (srv *marketplaceService) OrdersForUser(ctx context.Context, userID string) ([]*usecase.OrderDetails, error) {
	return srv.ordersWithDetails(ctx, func(ctx context.Context) ([]*entity.Order, error) {
		return srv.orders.GetByUser(ctx, userID)
	})
}

func (srv *marketplaceService) ordersWithDetails(
	ctx context.Context,
	fetch func(context.Context) ([]*entity.Order, error),
) ([]*usecase.OrderDetails, error) {
	var (
		orders   []*entity.Order
		users    []*entity.User
		products []*entity.Product
	)
	if err := load(ctx, into(&orders, fetch), into(&users, srv.users.GetAll), into(&products, srv.products.GetAll)); err != nil {
		return nil, errors.Wrap(err, "failed to load orders")
	}

	usersByID, productsByID := indexUsers(users), indexProducts(products)
	nameOf := func(id string) string {
		if u, ok := usersByID[id]; ok {
			return u.DisplayName()
		}

		return unknownName
	}

	out := make([]*usecase.OrderDetails, 0, len(orders))
	for _, o := range orders {
		details := &usecase.OrderDetails{
			Order:        o,
			Items:        make([]usecase.OrderItem, 0, len(o.Products)),
			CustomerName: nameOf(o.UserID),
			VendorName:   nameOf(o.VendorID),
		}
		for i, pid := range o.Products {
			item := usecase.OrderItem{ProductID: pid, Quantity: o.QuantityAt(i)}
			if p, ok := productsByID[pid]; ok {
				item.Name, item.Price = p.Name, p.Price
			} else {
				item.Name, item.Missing = unknownName, true
			}
			details.Items = append(details.Items, item)
		}
		out = append(out, details)
	}

	return out, nil
}

func (srv *marketplaceService) IntegrityReport(ctx context.Context) (*usecase.IntegrityReport, error) {
	var (
		users    []*entity.User
		products []*entity.Product
		orders   []*entity.Order
		subs     []*entity.Subscription
		txns     []*entity.Transaction
	)
	err := load(ctx,
		into(&users, srv.users.GetAll),
		into(&products, srv.products.GetAll),
		into(&orders, srv.orders.GetAll),
		into(&subs, srv.subscriptions.GetAll),
		into(&txns, srv.transactions.GetAll),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load collections")
	}

	usersByID, productsByID := indexUsers(users), indexProducts(products)
	paidOrders := make(map[string]bool, len(txns))
	paidSubscriptions := make(map[string]bool, len(txns))
	for _, t := range txns {
		if t.OrderID != "" {
			paidOrders[t.OrderID] = true
		}
		if t.ReferenceID != "" {
			paidSubscriptions[t.ReferenceID] = true
		}
	}

	report := &usecase.IntegrityReport{CheckedAt: srv.now().UTC(), Issues: []usecase.IntegrityIssue{}}
	add := func(issue usecase.IntegrityIssue) {
		report.Issues = append(report.Issues, issue)
	}
	checkUser := func(collection, recordID, field, ref string) {
		if _, ok := usersByID[ref]; !ok {
			add(usecase.IntegrityIssue{Kind: usecase.IssueDanglingUser, Collection: collection, RecordID: recordID, Field: field, Ref: ref})
		}
	}
	checkVendor := func(collection, recordID, ref string) {
		if v, ok := usersByID[ref]; !ok || !v.IsVendor() {
			add(usecase.IntegrityIssue{Kind: usecase.IssueDanglingVendor, Collection: collection, RecordID: recordID, Field: "vendor_id", Ref: ref})
		}
	}
	checkProduct := func(collection, recordID, field, ref string) {
		if _, ok := productsByID[ref]; !ok {
			add(usecase.IntegrityIssue{Kind: usecase.IssueDanglingProduct, Collection: collection, RecordID: recordID, Field: field, Ref: ref})
		}
	}

	for _, p := range products {
		checkVendor("products", p.ID, p.VendorID)
	}
	for _, o := range orders {
		checkUser("orders", o.ID, "user_id", o.UserID)
		checkVendor("orders", o.ID, o.VendorID)
		for _, pid := range o.Products {
			checkProduct("orders", o.ID, "products", pid)
		}
		if !paidOrders[o.ID] {
			add(usecase.IntegrityIssue{Kind: usecase.IssueMissingTransaction, Collection: "orders", RecordID: o.ID})
		}
	}
	for _, s := range subs {
		checkUser("subscriptions", s.ID, "user_id", s.UserID)
		checkVendor("subscriptions", s.ID, s.VendorID)
		if s.ProductID != "" {
			checkProduct("subscriptions", s.ID, "product_id", s.ProductID)
		}
		if !paidSubscriptions[s.ID] {
			add(usecase.IntegrityIssue{Kind: usecase.IssueMissingTransaction, Collection: "subscriptions", RecordID: s.ID})
		}
	}
	for _, t := range txns {
		checkUser("transactions", t.ID, "user_id", t.UserID)
		checkVendor("transactions", t.ID, t.VendorID)
	}

	for _, issue := range report.Issues {
		srv.log(ctx).Warn("Integrity issue",
			slog.String("kind", issue.Kind),
			slog.String("collection", issue.Collection),
			slog.String("id", issue.RecordID),
			slog.String("ref", issue.Ref),
		)
	}

	return report, nil
}
