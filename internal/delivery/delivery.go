// Package delivery holds the adapters that expose usecases to the outside.
package delivery

import "context"

// Delivery is a long-running adapter started by the fx application.
type Delivery interface {
	Serve(ctx context.Context) error
}
