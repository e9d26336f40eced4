package cli

import (
	"context"
	"fmt"
)

// Orders refreshes the pending-order count and prints it. The refresh is
// debounced; a call inside the window just reprints the cached count.
func (a *App) Orders(ctx context.Context) error {
	if err := a.orders.RequestRefresh(ctx); err != nil {
		printlnFn("Could not refresh pending orders:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Pending orders: %d", a.orders.Count()))
	return nil
}
