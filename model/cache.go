package model

// Cache keys owned by the application.
const (
	CacheKeyCheckups = "checkups"
	CacheKeyClaims   = "claims"
)

// Cache is the explicit query cache for backend reads that outlive one
// view (the checkup sidebar, the session claims). Invalidation is always
// an explicit call from the component that knows the data changed:
// starting a checkup invalidates the checkups list, logging out clears
// everything. All access happens on the UI goroutine, so no lock.
type Cache struct {
	entries map[string]any
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

func (c *Cache) Get(key string) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) Set(key string, value any) {
	c.entries[key] = value
}

// Invalidate drops one key so the next read refetches.
func (c *Cache) Invalidate(key string) {
	delete(c.entries, key)
}

// Clear drops every entry. Called on logout.
func (c *Cache) Clear() {
	c.entries = make(map[string]any)
}
