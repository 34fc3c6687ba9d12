package voices

import (
	"context"
	"sync"

	"github.com/sereneai/chat-gateway/internal/observability"
)

// Voice describes one synthetic voice installed on the host platform.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Lister queries the host platform for its installed voices.
type Lister interface {
	List(ctx context.Context) ([]Voice, error)
}

// Catalog is an explicitly owned, lazily-initialized cache of platform
// voices. The cache is overwritten wholesale on each refresh (last writer
// wins, no merge) and is injected into whichever component needs it.
type Catalog struct {
	mu     sync.RWMutex
	voices []Voice
	loaded bool
	lister Lister
}

// NewCatalog creates an empty catalog backed by the given lister.
func NewCatalog(lister Lister) *Catalog {
	return &Catalog{lister: lister}
}

// Voices returns a copy of the cached descriptors, loading them on first use.
func (c *Catalog) Voices(ctx context.Context) []Voice {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()

	if !loaded {
		c.Refresh(ctx)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Voice, len(c.voices))
	copy(out, c.voices)
	return out
}

// Empty reports whether the cache holds no voices, loading on first use.
func (c *Catalog) Empty(ctx context.Context) bool {
	return len(c.Voices(ctx)) == 0
}

// Refresh re-queries the platform and replaces the cache wholesale.
func (c *Catalog) Refresh(ctx context.Context) {
	logger := observability.WithComponent("voices")

	listed, err := c.lister.List(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("voice catalog query failed")
		listed = nil
	}

	c.mu.Lock()
	c.voices = listed
	c.loaded = true
	c.mu.Unlock()

	logger.Debug().Int("count", len(listed)).Msg("voice catalog refreshed")
}
