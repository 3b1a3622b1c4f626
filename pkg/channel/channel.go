// Package channel normalizes logger channel rules into a canonical inclusive or
// exclusive list of channel names.
package channel

import (
	"slices"
	"sort"
	"strings"
)

// Marker prefixes a channel name that is excluded rather than included.
const Marker = "!"

// Type classifies a rule as an allow list or a deny list.
type Type string

const (
	Inclusive Type = "inclusive"
	Exclusive Type = "exclusive"
)

// Valid reports whether t is Inclusive or Exclusive.
func (t Type) Valid() bool {
	return t == Inclusive || t == Exclusive
}

// String returns the configuration spelling of t.
func (t Type) String() string {
	return string(t)
}

// Entry is the canonical form of a channel rule.
type Entry struct {
	Type     Type     `json:"type" yaml:"type" mapstructure:"type"`
	Elements []string `json:"elements" yaml:"elements" mapstructure:"elements"`
}

// IsExclusive reports whether the listed channels are the ones left out.
func (e Entry) IsExclusive() bool {
	return e.Type == Exclusive
}

// Allows reports whether the named channel is recorded under this rule.
func (e Entry) Allows(channel string) bool {
	listed := slices.Contains(e.Elements, channel)
	if e.IsExclusive() {
		return !listed
	}
	return listed
}

// String renders the entry back into marker notation.
func (e Entry) String() string {
	parts := make([]string, len(e.Elements))
	for i, element := range e.Elements {
		if e.IsExclusive() {
			parts[i] = Marker + element
		} else {
			parts[i] = element
		}
	}
	return strings.Join(parts, ",")
}

func (e Entry) clone() Entry {
	return Entry{Type: e.Type, Elements: slices.Clone(e.Elements)}
}

// Map holds the channel rules of one configuration load, keyed by name.
// It is not modified after NormalizeMap returns it.
type Map map[string]Entry

// Get returns a copy of the named rule.
func (m Map) Get(name string) (Entry, bool) {
	entry, ok := m[name]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Names returns the configured rule names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Allows reports whether channel is recorded under the named rule.
// A name without a rule records every channel.
func (m Map) Allows(name, channel string) bool {
	entry, ok := m[name]
	if !ok {
		return true
	}
	return entry.Allows(channel)
}

// Counts returns the number of inclusive and exclusive rules, for logging.
func (m Map) Counts() map[Type]int {
	counts := map[Type]int{Inclusive: 0, Exclusive: 0}
	for _, entry := range m {
		counts[entry.Type]++
	}
	return counts
}
