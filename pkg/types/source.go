package types

import "context"

// Publisher receives an immutable copy of a venue book after every accepted
// mutation.
type Publisher func(book *OrderBook)

type Source interface {
	Name() string
	Start(ctx context.Context, publish Publisher) error
	Stop()
}
