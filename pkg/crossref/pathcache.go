package crossref

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/chadrwalters/nova-sub004/pkg/common"
)

type pathKey struct {
	from string
	to   string
}

// pathCache memoizes navigation paths per ordered document pair. Every
// graph mutation must drop the affected entries before it returns; a stale
// entry after a mutation is a correctness bug, not a performance concern.
type pathCache struct {
	entries *lru.Cache[pathKey, []common.NavigationPath]
}

func newPathCache(size int) (*pathCache, error) {
	entries, err := lru.New[pathKey, []common.NavigationPath](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create path cache: %w", err)
	}
	return &pathCache{entries: entries}, nil
}

func (c *pathCache) get(key pathKey) ([]common.NavigationPath, bool) {
	return c.entries.Get(key)
}

func (c *pathCache) add(key pathKey, paths []common.NavigationPath) {
	c.entries.Add(key, paths)
}

// invalidateNode drops every cached pair touching the given document.
func (c *pathCache) invalidateNode(node string) {
	for _, key := range c.entries.Keys() {
		if key.from == node || key.to == node {
			c.entries.Remove(key)
		}
	}
}

func (c *pathCache) purge() {
	c.entries.Purge()
}

func (c *pathCache) len() int {
	return c.entries.Len()
}
