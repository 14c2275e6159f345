// Package charges manages the user-defined recurring monthly charges that are
// added on top of principal and interest.
package charges

import (
	"errors"
	"fmt"
)

// DefaultName is the name given to a newly added charge.
const DefaultName = "Custom Charge"

// ErrNotFound is returned when no charge has the requested ID.
var ErrNotFound = errors.New("charge not found")

// Charge is a named monthly amount. IDs are sequence numbers starting at 1.
type Charge struct {
	ID     int     `json:"id" yaml:"id" mapstructure:"id"`
	Name   string  `json:"name" yaml:"name" mapstructure:"name"`
	Amount float64 `json:"amount" yaml:"amount" mapstructure:"amount"`
}

// List is an ordered collection of charges. Methods never modify the receiver;
// they return an updated copy.
type List []Charge

// Total sums the charge amounts.
func (l List) Total() float64 {
	total := 0.0
	for _, c := range l {
		total += c.Amount
	}
	return total
}

// NextID returns the identifier the next added charge will receive: one past
// the highest ID in the list.
func (l List) NextID() int {
	maxID := 0
	for _, c := range l {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	return maxID + 1
}

// Add appends a charge and returns the new list and the added charge. An
// empty name falls back to DefaultName.
func (l List) Add(name string, amount float64) (List, Charge) {
	if name == "" {
		name = DefaultName
	}
	c := Charge{ID: l.NextID(), Name: name, Amount: amount}
	out := make(List, len(l), len(l)+1)
	copy(out, l)
	return append(out, c), c
}

// Update replaces the name and amount of the charge with the given ID.
func (l List) Update(id int, name string, amount float64) (List, error) {
	idx := l.index(id)
	if idx < 0 {
		return l, fmt.Errorf("update charge %d: %w", id, ErrNotFound)
	}
	out := l.clone()
	out[idx].Name = name
	out[idx].Amount = amount
	return out, nil
}

// Remove drops the charge with the given ID, preserving order.
func (l List) Remove(id int) (List, error) {
	idx := l.index(id)
	if idx < 0 {
		return l, fmt.Errorf("remove charge %d: %w", id, ErrNotFound)
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:idx]...)
	return append(out, l[idx+1:]...), nil
}

// Get returns the charge with the given ID.
func (l List) Get(id int) (Charge, bool) {
	if idx := l.index(id); idx >= 0 {
		return l[idx], true
	}
	return Charge{}, false
}

// Normalize assigns IDs to charges that lack one (or duplicate an earlier
// one), keeping existing unique IDs. Used on lists decoded from config or
// API payloads.
func (l List) Normalize() List {
	out := l.clone()
	seen := make(map[int]struct{}, len(out))
	next := l.NextID()
	for i := range out {
		if _, dup := seen[out[i].ID]; out[i].ID <= 0 || dup {
			out[i].ID = next
			next++
		}
		seen[out[i].ID] = struct{}{}
	}
	return out
}

func (l List) index(id int) int {
	for i, c := range l {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (l List) clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
