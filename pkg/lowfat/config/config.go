// Package config reads the low-fat layout configuration document: an ordered
// mapping of parameter names to unsigned 64-bit sizes and counts.
package config

import (
	"fmt"
)

// The parameters every configuration document must define.
const (
	HeapRegionSize     = "HEAP_REGION_SIZE"
	GlobalRegionSize   = "GLOBAL_REGION_SIZE"
	StackRegionSize    = "STACK_REGION_SIZE"
	MinAllocSize       = "MIN_ALLOC_SIZE"
	MaxHeapAllocSize   = "MAX_HEAP_ALLOC_SIZE"
	MaxStackAllocSize  = "MAX_STACK_ALLOC_SIZE"
	MaxGlobalAllocSize = "MAX_GLOBAL_ALLOC_SIZE"
	StackSize          = "STACK_SIZE"
)

// RequiredParameters lists the mandatory keys in the order they are checked.
var RequiredParameters = []string{
	HeapRegionSize,
	GlobalRegionSize,
	StackRegionSize,
	MinAllocSize,
	MaxHeapAllocSize,
	MaxStackAllocSize,
	MaxGlobalAllocSize,
	StackSize,
}

// Width is the C integer width an entry is emitted with.
type Width int

const (
	// WidthAuto picks the width from the value's magnitude when the header is
	// rendered.
	WidthAuto Width = iota
	Width32
	Width64
)

func (w Width) String() string {
	switch w {
	case Width32:
		return "32"
	case Width64:
		return "64"
	default:
		return "auto"
	}
}

// ParseWidth converts a declared bit count into a Width.
func ParseWidth(bits uint64) (Width, error) {
	switch bits {
	case 32:
		return Width32, nil
	case 64:
		return Width64, nil
	default:
		return WidthAuto, fmt.Errorf("unsupported width %d (must be 32 or 64)", bits)
	}
}

// Entry is one named parameter.
type Entry struct {
	Name  string
	Value uint64
	Width Width
}

// Configuration is an ordered set of entries. It is never modified in place:
// With returns an augmented copy.
type Configuration struct {
	entries []Entry
	index   map[string]int
}

// New builds a configuration from entries. A repeated name keeps the position
// of its first occurrence and the value of its last one.
func New(entries ...Entry) *Configuration {
	c := &Configuration{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		c.set(e)
	}
	return c
}

func (c *Configuration) set(e Entry) {
	if i, ok := c.index[e.Name]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	return New(c.entries...)
}

// With returns a copy of c with the entry added, or replaced in place when the
// name already exists.
func (c *Configuration) With(entries ...Entry) *Configuration {
	out := c.Clone()
	for _, e := range entries {
		out.set(e)
	}
	return out
}

// Get returns the value stored under name.
func (c *Configuration) Get(name string) (uint64, bool) {
	i, ok := c.index[name]
	if !ok {
		return 0, false
	}
	return c.entries[i].Value, true
}

// Lookup returns the full entry stored under name.
func (c *Configuration) Lookup(name string) (Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// MustGet is Get for keys that have already been validated.
func (c *Configuration) MustGet(name string) uint64 {
	v, ok := c.Get(name)
	if !ok {
		panic(fmt.Sprintf("DEVELOPER ERROR: %s read before validation", name))
	}
	return v
}

// Has reports whether name is defined.
func (c *Configuration) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Entries returns the entries in document order.
func (c *Configuration) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns the entry names in document order.
func (c *Configuration) Names() []string {
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Name)
	}
	return out
}

// Len returns the number of entries.
func (c *Configuration) Len() int {
	return len(c.entries)
}
