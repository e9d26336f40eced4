// Package tab derives the per-tab identity every other store namespaces
// its durable keys with. The identity lives in a volatile slot scoped to
// the tab's lifetime: reloading the same tab keeps it, a second tab gets
// its own.
package tab

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartbookcity/storefront/internal/client/storage"
	"github.com/smartbookcity/storefront/internal/logging"
)

// Provider creates and caches the tab identity.
type Provider struct {
	slot storage.Slot
	log  logging.Logger

	// seams for deterministic tests
	now       func() time.Time
	newSuffix func() string
}

func NewProvider(slot storage.Slot, log logging.Logger) *Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{
		slot:      slot,
		log:       log,
		now:       time.Now,
		newSuffix: func() string { return uuid.NewString()[:8] },
	}
}

// GetOrCreate returns the tab identity, generating one on first call.
// Identity format: <unix-millis>-<random suffix>. If the volatile slot
// cannot persist the value, the generated identity is still returned;
// the tab simply loses it on reload (degraded mode).
func (p *Provider) GetOrCreate() string {
	if id, ok := p.slot.Get(); ok && id != "" {
		return id
	}

	id := fmt.Sprintf("%d-%s", p.now().UnixMilli(), p.newSuffix())

	if err := p.slot.Set(id); err != nil {
		p.log.Warn(context.Background(), "tab identity not persisted, continuing with ephemeral id", "error", err)
	}
	return id
}
