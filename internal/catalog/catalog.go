package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultTOML []byte

// Catalog is the ordered set of modules. The order is total: every module
// but the last has exactly one successor, and only the first starts unlocked.
type Catalog struct {
	modules       []Module
	index         map[ModuleID]int
	successors    map[ModuleID]ModuleID
	journeyMarker ModuleID
}

type catalogFile struct {
	JourneyMarker ModuleID `toml:"journey_marker"`
	Modules       []Module `toml:"modules"`
}

// New builds a catalog from modules in journey order. journeyMarker names
// the module whose unlocking completes the journey; empty means the last.
func New(modules []Module, journeyMarker ModuleID) (*Catalog, error) {
	if err := validateModules(modules, journeyMarker); err != nil {
		return nil, err
	}
	c := &Catalog{
		modules:    slices.Clone(modules),
		index:      make(map[ModuleID]int, len(modules)),
		successors: make(map[ModuleID]ModuleID, len(modules)),
	}
	for i, m := range c.modules {
		c.index[m.ID] = i
		if i+1 < len(c.modules) {
			c.successors[m.ID] = c.modules[i+1].ID
		}
	}
	c.journeyMarker = journeyMarker
	if c.journeyMarker == "" {
		c.journeyMarker = c.modules[len(c.modules)-1].ID
	}
	return c, nil
}

// Parse decodes a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Modules, f.JourneyMarker)
}

// Load reads a TOML catalog from path. An empty path returns the default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in seven-module journey.
func Default() *Catalog {
	c, err := Parse(defaultTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Modules returns all modules in journey order.
func (c *Catalog) Modules() []Module {
	return slices.Clone(c.modules)
}

// IDs returns all module IDs in journey order.
func (c *Catalog) IDs() []ModuleID {
	ids := make([]ModuleID, len(c.modules))
	for i, m := range c.modules {
		ids[i] = m.ID
	}
	return ids
}

// Len returns the number of modules.
func (c *Catalog) Len() int { return len(c.modules) }

// Lookup returns the module with the given ID.
func (c *Catalog) Lookup(id ModuleID) (Module, bool) {
	i, ok := c.index[id]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

// Contains reports whether id names a module.
func (c *Catalog) Contains(id ModuleID) bool {
	_, ok := c.index[id]
	return ok
}

// Index returns the position of id in journey order, or -1.
func (c *Catalog) Index(id ModuleID) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// At returns the module at position i.
func (c *Catalog) At(i int) (Module, bool) {
	if i < 0 || i >= len(c.modules) {
		return Module{}, false
	}
	return c.modules[i], true
}

// First returns the module that starts unlocked.
func (c *Catalog) First() Module { return c.modules[0] }

// Last returns the final module.
func (c *Catalog) Last() Module { return c.modules[len(c.modules)-1] }

// Successor returns the module unlocked by completing id.
func (c *Catalog) Successor(id ModuleID) (ModuleID, bool) {
	next, ok := c.successors[id]
	return next, ok
}

// JourneyMarker returns the module whose unlocking completes the journey.
func (c *Catalog) JourneyMarker() ModuleID { return c.journeyMarker }
