// Package entities holds the records exchanged between the catalog, the
// prescription processor and the HTTP layer.
package entities

// Medicine is one catalog entry. Name and potency are matched case-insensitively.
type Medicine struct {
	Name    string  `json:"name"`
	Potency string  `json:"potency"`
	Price   float64 `json:"price"`
}

// MedicineInput is the raw add-medicine request before validation.
// Price keeps the literal text so numbers and numeric strings are both accepted.
type MedicineInput struct {
	Name    string
	Potency string
	Price   string
}
