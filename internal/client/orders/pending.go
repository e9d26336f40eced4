// Package orders maintains the unpaid-order badge count: a derived
// integer rebuilt from remote reads, rate-limited so navigation cannot
// hammer the orders endpoint.
package orders

import (
	"context"
	"sync"
	"time"

	"github.com/smartbookcity/storefront/internal/client/models"
	"github.com/smartbookcity/storefront/internal/logging"
)

// DefaultRefreshThreshold is the minimum elapsed time between two
// remote refreshes.
const DefaultRefreshThreshold = 5 * time.Second

// API is the slice of the remote capability the counter reads from.
type API interface {
	FetchOrders(ctx context.Context, userID int64) ([]models.Order, error)
}

// Identity reports the authenticated user, if any.
type Identity interface {
	Current() (models.UserProfile, bool)
}

// Counter is the debounced pending-order counter.
type Counter struct {
	api       API
	identity  Identity
	log       logging.Logger
	threshold time.Duration
	now       func() time.Time

	mu            sync.Mutex
	count         int
	lastRefreshed time.Time
}

func NewCounter(apiClient API, identity Identity, threshold time.Duration, log logging.Logger) *Counter {
	if threshold <= 0 {
		threshold = DefaultRefreshThreshold
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Counter{
		api:       apiClient,
		identity:  identity,
		log:       log,
		threshold: threshold,
		now:       time.Now,
	}
}

// RequestRefresh refreshes the count from the remote store unless the
// previous refresh was under the threshold ago, in which case it is a
// no-op. A failed refresh leaves both the count and the timestamp
// untouched, so the next call past the threshold simply retries.
func (c *Counter) RequestRefresh(ctx context.Context) error {
	now := c.now()

	c.mu.Lock()
	if now.Sub(c.lastRefreshed) < c.threshold {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	user, ok := c.identity.Current()
	if !ok {
		return nil
	}

	orders, err := c.api.FetchOrders(ctx, user.ID)
	if err != nil {
		c.log.Warn(ctx, "pending order refresh failed", "error", err)
		return err
	}

	pending := 0
	for _, order := range orders {
		if order.Status == models.OrderStatusPendingPayment {
			pending++
		}
	}

	c.mu.Lock()
	c.count = pending
	c.lastRefreshed = now
	c.mu.Unlock()
	return nil
}

// Reset zeroes the count and stamps the refresh time so the next
// navigation does not immediately re-trigger a remote read. Used on
// logout and after checkout.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.lastRefreshed = c.now()
}

// Count returns the last known pending-order count.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// LastRefreshedAt returns when the count was last rebuilt or reset.
func (c *Counter) LastRefreshedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefreshed
}
