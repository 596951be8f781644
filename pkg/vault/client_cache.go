package vault

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/panteparak/credential-plugins/pkg/metrics"
)

// ClientCache provides a thread-safe cache of authenticated Vault clients.
// Keys are derived from the connection and credential inputs, so two lookups
// against the same Vault with the same credentials share one login.
type ClientCache struct {
	clients map[string]*Client
	mu      sync.RWMutex
	logins  singleflight.Group
}

// NewClientCache creates a new ClientCache
func NewClientCache() *ClientCache {
	return &ClientCache{
		clients: make(map[string]*Client),
	}
}

// Get retrieves a client by key
func (c *ClientCache) Get(key string) (*Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	client, ok := c.clients[key]
	if !ok {
		return nil, fmt.Errorf("vault client %q not found in cache", key)
	}
	return client, nil
}

// Delete removes a client from the cache
func (c *ClientCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.clients, key)
	metrics.SetClientCacheSize(len(c.clients))
}

// GetOrCreate retrieves an existing client or creates a new one using the provided factory.
// Concurrent callers for the same key share one factory call, which runs
// without holding the cache lock. A factory error is returned as-is and
// nothing is cached.
func (c *ClientCache) GetOrCreate(key string, factory func() (*Client, error)) (*Client, error) {
	if client, ok := c.lookup(key); ok {
		return client, nil
	}

	v, err, _ := c.logins.Do(key, func() (interface{}, error) {
		// A previous flight may have stored the client after our lookup
		if client, ok := c.lookup(key); ok {
			return client, nil
		}

		client, err := factory()
		if err != nil {
			return nil, err
		}
		client.SetCacheKey(key)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.clients[key] = client
		metrics.SetClientCacheSize(len(c.clients))
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Client), nil
}

func (c *ClientCache) lookup(key string) (*Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	client, ok := c.clients[key]
	return client, ok
}

// Clear removes all clients from the cache
func (c *ClientCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clients = make(map[string]*Client)
	metrics.SetClientCacheSize(0)
}

// Size returns the number of clients in the cache
func (c *ClientCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.clients)
}
