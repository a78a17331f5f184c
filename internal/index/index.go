// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maps external paper and author identifiers onto dense
// integer indices and persists those maps as single-line JSON objects.
package index

// Assigner hands out dense, stable indices for external identifiers.
type Assigner interface {
	// Assign returns the index bound to id, binding the next unused index
	// if id has not been seen before.
	Assign(id string) int

	// Lookup returns the index bound to id without assigning one.
	Lookup(id string) (int, bool)

	// Len returns the number of bound identifiers.
	Len() int
}

// Dense is an Assigner that numbers identifiers 0, 1, 2, ... in the order
// they are first assigned. It remembers insertion order so the map can be
// written back out in that order.
type Dense struct {
	idx  map[string]int
	keys []string
	next int
}

// NewDense returns an empty Dense assigner.
func NewDense() *Dense {
	return &Dense{idx: make(map[string]int)}
}

// Assign implements Assigner.
func (d *Dense) Assign(id string) int {
	if i, ok := d.idx[id]; ok {
		return i
	}
	i := d.next
	d.idx[id] = i
	d.keys = append(d.keys, id)
	d.next++
	return i
}

// Lookup implements Assigner.
func (d *Dense) Lookup(id string) (int, bool) {
	i, ok := d.idx[id]
	return i, ok
}

// Len implements Assigner.
func (d *Dense) Len() int {
	return len(d.keys)
}

// Keys returns the bound identifiers in first-seen order.
func (d *Dense) Keys() []string {
	return append([]string(nil), d.keys...)
}

// bind records a loaded id/index pair. Later assignments continue past
// the largest index seen.
func (d *Dense) bind(id string, i int) {
	if _, ok := d.idx[id]; !ok {
		d.keys = append(d.keys, id)
	}
	d.idx[id] = i
	if i >= d.next {
		d.next = i + 1
	}
}

// Canonical maps every identifier seen for an author onto that author's
// canonical id. An identifier is bound once; later registrations of the
// same identifier are ignored.
type Canonical struct {
	m    map[string]string
	keys []string
}

// NewCanonical returns an empty Canonical map.
func NewCanonical() *Canonical {
	return &Canonical{m: make(map[string]string)}
}

// Register binds each of ids to canonical unless it is already bound.
func (c *Canonical) Register(canonical string, ids ...string) {
	for _, id := range ids {
		if _, ok := c.m[id]; ok {
			continue
		}
		c.m[id] = canonical
		c.keys = append(c.keys, id)
	}
}

// Resolve returns the canonical id bound to id.
func (c *Canonical) Resolve(id string) (string, bool) {
	v, ok := c.m[id]
	return v, ok
}

// Len returns the number of bound identifiers.
func (c *Canonical) Len() int {
	return len(c.keys)
}

// Keys returns the bound identifiers in first-registered order.
func (c *Canonical) Keys() []string {
	return append([]string(nil), c.keys...)
}
