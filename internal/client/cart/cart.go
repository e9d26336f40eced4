// Package cart owns the local-first shopping cart. Every mutation is
// applied to the in-memory cart and persisted durably before any remote
// call; the remote store is mirrored asynchronously and is allowed to
// lag. Local state is the source of truth for the active session except
// when FetchFromRemote is explicitly invoked, which replaces the cart
// wholesale.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/smartbookcity/storefront/internal/client/api"
	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/client/storage"
	"github.com/smartbookcity/storefront/internal/common"
	"github.com/smartbookcity/storefront/internal/logging"
)

// storageKey is the durable slot for the cart. Guest carts and
// authenticated carts share it; the remote copy is keyed by user id.
const storageKey = "cart"

// API is the slice of the remote capability the cart engine mirrors to.
// *api.HTTPClient satisfies it.
type API interface {
	FetchCart(ctx context.Context, userID int64) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, userID, bookID int64, quantity int) error
	UpdateCartItem(ctx context.Context, userID, bookID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, bookID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

// Identity reports the authenticated user, if any. The session store
// satisfies it.
type Identity interface {
	Current() (models.UserProfile, bool)
}

// Engine is the cart reconciliation engine.
type Engine struct {
	api      API
	kv       storage.Store
	identity Identity
	log      logging.Logger

	mu      sync.Mutex
	items   []models.CartItem
	lastErr string

	wg sync.WaitGroup
}

func New(apiClient API, kv storage.Store, identity Identity, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NewNop()
	}
	return &Engine{
		api:      apiClient,
		kv:       kv,
		identity: identity,
		log:      log,
		items:    make([]models.CartItem, 0),
	}
}

// AddItem adds quantity of book to the cart. Repeated adds of the same
// book increment its quantity; there is never more than one line per
// book. The local mutation commits before the remote mirror is issued.
func (e *Engine) AddItem(ctx context.Context, book models.BookSummary, quantity int) error {
	e.mu.Lock()
	found := false
	for i := range e.items {
		if e.items[i].Book.ID == book.ID {
			e.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		e.items = append(e.items, models.CartItem{Book: book, Quantity: quantity})
	}
	err := e.persistLocked(ctx)
	e.mu.Unlock()

	e.mirrorIfAuthenticated(ctx, common.MsgCartAddFailed, func(ctx context.Context, userID int64) error {
		return e.api.AddCartItem(ctx, userID, book.ID, quantity)
	})
	return err
}

// RemoveItem removes the line for bookID. The remote removal is mirrored
// even when the book was not present locally, matching the remote-first
// delete endpoint's idempotency.
func (e *Engine) RemoveItem(ctx context.Context, bookID int64) error {
	e.mu.Lock()
	var err error
	for i := range e.items {
		if e.items[i].Book.ID == bookID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			err = e.persistLocked(ctx)
			break
		}
	}
	e.mu.Unlock()

	e.mirrorIfAuthenticated(ctx, common.MsgCartRemoveFailed, func(ctx context.Context, userID int64) error {
		return e.api.RemoveCartItem(ctx, userID, bookID)
	})
	return err
}

// UpdateQuantity sets the quantity for bookID. The value is applied as
// given; call sites treat zero as a remove and route it to RemoveItem.
func (e *Engine) UpdateQuantity(ctx context.Context, bookID int64, quantity int) error {
	e.mu.Lock()
	var err error
	for i := range e.items {
		if e.items[i].Book.ID == bookID {
			e.items[i].Quantity = quantity
			err = e.persistLocked(ctx)
			break
		}
	}
	e.mu.Unlock()

	e.mirrorIfAuthenticated(ctx, common.MsgCartUpdateFailed, func(ctx context.Context, userID int64) error {
		return e.api.UpdateCartItem(ctx, userID, bookID, quantity)
	})
	return err
}

// Clear empties the cart locally and mirrors a remote clear.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.items = make([]models.CartItem, 0)
	err := e.persistLocked(ctx)
	e.mu.Unlock()

	e.mirrorIfAuthenticated(ctx, common.MsgCartClearFailed, func(ctx context.Context, userID int64) error {
		return e.api.ClearCart(ctx, userID)
	})
	return err
}

// FetchFromRemote replaces the local cart wholesale with the remote one
// and persists the result. On remote failure the in-memory cart is
// reloaded from the durable copy — the fallback of record — and the
// error is returned. A guest session makes this a no-op.
func (e *Engine) FetchFromRemote(ctx context.Context) error {
	user, ok := e.identity.Current()
	if !ok {
		return nil
	}

	items, err := e.api.FetchCart(ctx, user.ID)
	if err != nil {
		e.recordError(ctx, common.MsgCartFetchFailed, err)
		if loadErr := e.LoadFromDurable(ctx); loadErr != nil {
			e.log.Warn(ctx, "durable cart fallback failed", "error", loadErr)
		}
		return err
	}

	if items == nil {
		items = make([]models.CartItem, 0)
	}
	e.mu.Lock()
	e.items = items
	e.lastErr = ""
	err = e.persistLocked(ctx)
	e.mu.Unlock()
	return err
}

// SyncToServer pushes the entire local cart to the remote store, used
// once at login time to migrate a guest-accumulated cart. The remote
// cart is cleared first, then every local item is re-added one at a
// time, so a failure partway through leaves the remote cart in a known
// prefix state. No rollback is attempted; the error is the caller's to
// handle.
func (e *Engine) SyncToServer(ctx context.Context) error {
	user, ok := e.identity.Current()
	if !ok {
		return nil
	}

	items := e.Snapshot()
	if len(items) == 0 {
		return nil
	}

	if err := e.api.ClearCart(ctx, user.ID); err != nil {
		e.recordError(ctx, common.MsgCartSyncFailed, err)
		return fmt.Errorf("failed to clear remote cart: %w", err)
	}

	for _, item := range items {
		if err := e.api.AddCartItem(ctx, user.ID, item.Book.ID, item.Quantity); err != nil {
			e.recordError(ctx, common.MsgCartSyncFailed, err)
			return fmt.Errorf("failed to sync item %d: %w", item.Book.ID, err)
		}
	}
	return nil
}

// LoadFromDurable replaces the in-memory cart with the durable copy.
// A malformed durable cart is treated as empty, never as an error.
func (e *Engine) LoadFromDurable(ctx context.Context) error {
	raw, ok, err := e.kv.Get(ctx, storageKey)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalDataNotAvailable, err)
	}
	if !ok || raw == "" {
		return nil
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		e.log.Warn(ctx, "stored cart is malformed, starting empty", "error", err)
		items = nil
	}
	if items == nil {
		items = make([]models.CartItem, 0)
	}

	e.mu.Lock()
	e.items = items
	e.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current cart lines in insertion order.
func (e *Engine) Snapshot() []models.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

// TotalItems is the summed quantity across all lines.
func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, item := range e.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the summed price*quantity across all lines.
func (e *Engine) TotalPrice() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0.0
	for _, item := range e.items {
		total += item.Book.Price * float64(item.Quantity)
	}
	return total
}

// LastError is the most recent background-mirror failure message, empty
// when the last reconciliation round succeeded.
func (e *Engine) LastError() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Wait blocks until all outstanding background mirrors have finished.
// Intended for shutdown and tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// mirrorIfAuthenticated runs call as a background task when a user is
// logged in. The task outlives the caller's cancellation (a logout or
// page change must not abort an already-issued mirror); its failure is
// captured into lastErr rather than discarded.
func (e *Engine) mirrorIfAuthenticated(ctx context.Context, failMsg string, call func(ctx context.Context, userID int64) error) {
	user, ok := e.identity.Current()
	if !ok {
		return
	}

	bg := context.WithoutCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := call(bg, user.ID); err != nil {
			e.recordError(bg, failMsg, err)
		}
	}()
}

func (e *Engine) recordError(ctx context.Context, fallback string, err error) {
	msg := api.ErrorMessage(err)
	if msg == "" {
		msg = fallback
	}
	e.mu.Lock()
	e.lastErr = msg
	e.mu.Unlock()
	e.log.Warn(ctx, "cart reconciliation failed", "error", err)
}

// persistLocked writes the cart to durable storage. Caller holds e.mu.
func (e *Engine) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(e.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := e.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
