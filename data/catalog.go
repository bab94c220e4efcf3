// Package data provides the in-memory medicine catalog shared by every request.
// Readers take lock-free snapshots; appends are serialized and swap in a new slice.
package data

import (
	"sync"
	"sync/atomic"

	"github.com/giygas/mediscript-api/entities"
	"github.com/giygas/mediscript-api/interfaces"
	"github.com/giygas/mediscript-api/validation"
	"golang.org/x/text/cases"
)

// Compile-time check to ensure Catalog implements MedicineStore
var _ interfaces.MedicineStore = (*Catalog)(nil)

// DefaultPrice is returned by FindPrice when no record matches
const DefaultPrice = 15.00

// SeedMedicines is the catalog content at process start
var SeedMedicines = []entities.Medicine{
	{Name: "Augmentin", Potency: "625mg", Price: 45.00},
	{Name: "Enzoflam", Potency: "1tablet", Price: 25.50},
	{Name: "Panadol", Potency: "40mg", Price: 12.99},
	{Name: "Amoxicillin", Potency: "500mg", Price: 12.99},
	{Name: "Ibuprofen", Potency: "400mg", Price: 8.50},
	{Name: "Omeprazole", Potency: "20mg", Price: 15.75},
	{Name: "Metformin", Potency: "500mg", Price: 9.99},
	{Name: "Lisinopril", Potency: "10mg", Price: 11.25},
}

// Catalog is an ordered, append-only list of medicines. Duplicate
// name/potency pairs are allowed; lookups return the first match.
type Catalog struct {
	records atomic.Pointer[[]entities.Medicine]
	writeMu sync.Mutex
}

// NewCatalog creates a catalog holding a copy of the given records
func NewCatalog(seed []entities.Medicine) *Catalog {
	c := &Catalog{}
	records := make([]entities.Medicine, len(seed))
	copy(records, seed)
	c.records.Store(&records)
	return c
}

// NewSeededCatalog creates a catalog with the default seed set
func NewSeededCatalog() *Catalog {
	return NewCatalog(SeedMedicines)
}

func (c *Catalog) snapshot() []entities.Medicine {
	if p := c.records.Load(); p != nil {
		return *p
	}
	return nil
}

// fold normalizes for case-insensitive comparison. A Caser keeps state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// FindPrice returns the price of the first record whose name and potency match
// case-insensitively, or DefaultPrice.
func (c *Catalog) FindPrice(name, potency string) float64 {
	name, potency = fold(name), fold(potency)
	for _, med := range c.snapshot() {
		if fold(med.Name) == name && fold(med.Potency) == potency {
			return med.Price
		}
	}
	return DefaultPrice
}

// List returns the catalog in insertion order. The slice is a copy.
func (c *Catalog) List() []entities.Medicine {
	records := c.snapshot()
	out := make([]entities.Medicine, len(records))
	copy(out, records)
	return out
}

// Count returns the number of records
func (c *Catalog) Count() int {
	return len(c.snapshot())
}

// Add validates the input and appends it. On a *validation.ValidationError the catalog is unchanged.
func (c *Catalog) Add(input entities.MedicineInput) (entities.Medicine, error) {
	med, err := validation.ValidateMedicine(input)
	if err != nil {
		return entities.Medicine{}, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	current := c.snapshot()
	next := make([]entities.Medicine, len(current), len(current)+1)
	copy(next, current)
	next = append(next, med)
	c.records.Store(&next)

	return med, nil
}
