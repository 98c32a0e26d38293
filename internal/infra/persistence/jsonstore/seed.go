package jsonstore

import (
	"time"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/service"
	"milkrun/internal/errors"
)

// SamplePassword is the password of every seeded account.
const SamplePassword = "password123"

// Seeded account ids, useful to callers that want to log in as a sample user.
const (
	SeedConsumerID       = "1"
	SeedVendorID         = "2"
	SeedAdminID          = "3"
	SeedPendingVendorID  = "4"
	seedSubscriptionDate = "2024-01-01"
)

// DefaultSeeds returns the first-run sample data: one consumer, one approved
// and one pending vendor, an admin, a small catalogue and one order and
// subscription with their transactions. Deliveries start empty.
func DefaultSeeds(hasher service.PasswordHasher) map[Collection]SeedFunc {
	created := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

	return map[Collection]SeedFunc{
		Users: func() (any, error) {
			hash, err := hasher.Hash(SamplePassword)
			if err != nil {
				return nil, errors.Wrap(err, "hash sample password")
			}

			return []*entity.User{
				{
					ID: SeedConsumerID, Email: "user@example.com", PasswordHash: hash, Name: "Asha Consumer",
					Role:        entity.RoleUser,
					ProfileInfo: entity.ProfileInfo{Address: "12 Meadow Lane", Phone: "555-0101"},
					CreatedAt:   created, UpdatedAt: created,
				},
				{
					ID: SeedVendorID, Email: "vendor@example.com", PasswordHash: hash, Name: "Ravi Dairyman",
					Role: entity.RoleVendor, ApprovalStatus: entity.ApprovalApproved,
					ProfileInfo: entity.ProfileInfo{
						BusinessName:        "Fresh Dairy",
						BusinessDescription: "Farm fresh milk delivered every morning",
						Address:             "1 Farm Road",
						Phone:               "555-0102",
					},
					CreatedAt: created, UpdatedAt: created,
				},
				{
					ID: SeedAdminID, Email: "admin@example.com", PasswordHash: hash, Name: "Admin",
					Role:      entity.RoleAdmin,
					CreatedAt: created, UpdatedAt: created,
				},
				{
					ID: SeedPendingVendorID, Email: "newdairy@example.com", PasswordHash: hash, Name: "Meera Gowda",
					Role: entity.RoleVendor, ApprovalStatus: entity.ApprovalPending,
					ProfileInfo: entity.ProfileInfo{BusinessName: "Green Pastures", Address: "7 Hill View", Phone: "555-0104"},
					CreatedAt:   created, UpdatedAt: created,
				},
			}, nil
		},
		Products: func() (any, error) {
			return []*entity.Product{
				{
					ID: "p1", VendorID: SeedVendorID, Name: "Cow Milk", Description: "Full cream cow milk",
					Price: 2.5, Category: "milk", Stock: 100, Unit: "litre", CreatedAt: created, UpdatedAt: created,
				},
				{
					ID: "p2", VendorID: SeedVendorID, Name: "Buffalo Milk", Description: "Rich buffalo milk",
					Price: 3, Category: "milk", Stock: 60, Unit: "litre", CreatedAt: created, UpdatedAt: created,
				},
				{
					ID: "p3", VendorID: SeedVendorID, Name: "Fresh Curd", Description: "Set curd",
					Price: 1.75, Category: "curd", Stock: 40, Unit: "500g", CreatedAt: created, UpdatedAt: created,
				},
			}, nil
		},
		Orders: func() (any, error) {
			return []*entity.Order{
				{
					ID: "o1", UserID: SeedConsumerID, VendorID: SeedVendorID,
					Products: []string{"p1", "p3"}, Quantities: []int{2, 1},
					Status: entity.OrderDelivered, Total: 6.75,
					DeliveryAddress: "12 Meadow Lane", DeliveryDate: "2024-01-02", DeliveryTime: "07:00",
					PaymentMethod: "cash", CreatedAt: created, UpdatedAt: created,
				},
			}, nil
		},
		Subscriptions: func() (any, error) {
			return []*entity.Subscription{
				{
					ID: "s1", UserID: SeedConsumerID, VendorID: SeedVendorID, ProductID: "p1", Quantity: 1,
					Type: entity.SubscriptionDaily, Status: entity.SubscriptionActive,
					StartDate: seedSubscriptionDate, DeliveryTime: "06:30",
					CreatedAt: created, UpdatedAt: created,
				},
			}, nil
		},
		Transactions: func() (any, error) {
			return []*entity.Transaction{
				{
					ID: "t1", UserID: SeedConsumerID, VendorID: SeedVendorID, Amount: 6.75, Date: created,
					OrderID: "o1", Type: entity.TransactionOrder,
				},
				{
					ID: "t2", UserID: SeedConsumerID, VendorID: SeedVendorID, Amount: 75, Date: created,
					ReferenceID: "s1", Type: entity.TransactionSubscription,
				},
			}, nil
		},
	}
}
