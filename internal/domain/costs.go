package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CostEntry is the unit cost of one product.
type CostEntry struct {
	ProductName string          `json:"product_name"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// CostMap maps product name to unit cost and remembers insertion order,
// which is the order rows are written back to the remote store.
// Keys are case-sensitive and matched exactly.
type CostMap struct {
	names  []string
	values map[string]decimal.Decimal
}

// NewCostMap returns an empty map.
func NewCostMap() *CostMap {
	return &CostMap{values: make(map[string]decimal.Decimal)}
}

// CostMapFrom builds a map from entries, later duplicates overwriting earlier ones.
func CostMapFrom(entries ...CostEntry) *CostMap {
	m := NewCostMap()
	for _, e := range entries {
		m.Set(e.ProductName, e.CostPerUnit)
	}
	return m
}

// Len is the number of products with a cost.
func (m *CostMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Get returns the cost of name and whether it is known.
func (m *CostMap) Get(name string) (decimal.Decimal, bool) {
	if m == nil {
		return decimal.Zero, false
	}
	v, ok := m.values[name]
	return v, ok
}

// Cost returns the unit cost of name, zero when unknown.
func (m *CostMap) Cost(name string) decimal.Decimal {
	v, _ := m.Get(name)
	return v
}

// Set inserts or updates name. Updating keeps the original position.
func (m *CostMap) Set(name string, cost decimal.Decimal) {
	if m.values == nil {
		m.values = make(map[string]decimal.Decimal)
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = cost
}

// Delete removes name and reports whether it was present.
func (m *CostMap) Delete(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.values[name]; !ok {
		return false
	}
	delete(m.values, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i:i], m.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns product names in insertion order.
func (m *CostMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Entries returns the map as entries in insertion order.
func (m *CostMap) Entries() []CostEntry {
	if m == nil {
		return nil
	}
	out := make([]CostEntry, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, CostEntry{ProductName: n, CostPerUnit: m.values[n]})
	}
	return out
}

// Clone returns an independent copy.
func (m *CostMap) Clone() *CostMap {
	c := NewCostMap()
	if m == nil {
		return c
	}
	for _, n := range m.names {
		c.Set(n, m.values[n])
	}
	return c
}

// Merge copies every entry of other into m.
func (m *CostMap) Merge(other *CostMap) {
	for _, e := range other.Entries() {
		m.Set(e.ProductName, e.CostPerUnit)
	}
}

// Stats summarises the map.
func (m *CostMap) Stats() CostStats {
	stats := CostStats{Products: m.Len()}
	if stats.Products == 0 {
		return stats
	}
	sum := decimal.Zero
	for i, e := range m.Entries() {
		sum = sum.Add(e.CostPerUnit)
		if i == 0 || e.CostPerUnit.LessThan(stats.Min) {
			stats.Min = e.CostPerUnit
		}
		if i == 0 || e.CostPerUnit.GreaterThan(stats.Max) {
			stats.Max = e.CostPerUnit
		}
	}
	stats.Average = sum.Div(decimal.NewFromInt(int64(stats.Products)))
	return stats
}

// MarshalJSON encodes the map as a flat object in insertion order.
func (m *CostMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ProductName)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(e.CostPerUnit.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat object of numbers, preserving key order.
func (m *CostMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("cost map: expected object, got %v", tok)
	}
	*m = CostMap{values: make(map[string]decimal.Decimal)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("cost map: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var cost decimal.Decimal
		if err := cost.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("cost map: value for %q: %w", name, err)
		}
		m.Set(name, cost)
	}
	_, err = dec.Token()
	return err
}

// CostSnapshot is a cost map stamped with the time it was fetched or saved.
type CostSnapshot struct {
	Data      *CostMap
	Timestamp time.Time
}

// FreshAt reports whether the snapshot is still within expiry at now.
// A snapshot exactly expiry old is stale.
func (s CostSnapshot) FreshAt(now time.Time, expiry time.Duration) bool {
	return now.Before(s.Timestamp.Add(expiry))
}

// CostStats summarises a cost map.
type CostStats struct {
	Products int             `json:"products"`
	Average  decimal.Decimal `json:"average"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
}
