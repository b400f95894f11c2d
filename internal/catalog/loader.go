package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an in-memory set of ability definitions keyed by ability ref.
type Catalog struct {
	mu        sync.RWMutex
	abilities map[string]AbilityDefinition
}

// File is the on-disk catalog format.
type File struct {
	Abilities map[string]AbilityDefinition `json:"abilities"`
}

// New builds a catalog from definitions. The map is copied.
func New(defs map[string]AbilityDefinition) *Catalog {
	c := &Catalog{abilities: make(map[string]AbilityDefinition, len(defs))}
	for k, v := range defs {
		c.abilities[k] = v
	}
	return c
}

// Parse decodes a catalog document of the form {"abilities": {key: definition}}.
func Parse(data []byte) (*Catalog, error) {
	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	for key, def := range doc.Abilities {
		if def.Shape == "" {
			return nil, fmt.Errorf("%w: ability %q has no shape", ErrInvalidCatalog, key)
		}
		for dim, s := range def.Stats {
			if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
				return nil, fmt.Errorf("%w: ability %q stat %q has min > max", ErrInvalidCatalog, key, dim)
			}
		}
	}
	return New(doc.Abilities), nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Lookup returns the definition for key, or false when the catalog has none.
func (c *Catalog) Lookup(key string) (*AbilityDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.abilities[key]
	if !ok {
		return nil, false
	}
	return &def, true
}

// Keys lists the ability refs in sorted order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.abilities))
	for k := range c.abilities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
