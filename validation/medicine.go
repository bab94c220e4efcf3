// Package validation checks user input before it reaches the catalog or the
// prescription processor.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/giygas/mediscript-api/entities"
)

const maxFieldLength = 200

// ValidateMedicine trims and checks an add-medicine request and returns the record to store
func ValidateMedicine(input entities.MedicineInput) (entities.Medicine, error) {
	name := strings.TrimSpace(input.Name)
	potency := strings.TrimSpace(input.Potency)

	if name == "" {
		return entities.Medicine{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if potency == "" {
		return entities.Medicine{}, &ValidationError{Field: "potency", Message: "is required"}
	}
	if len(name) > maxFieldLength {
		return entities.Medicine{}, &ValidationError{Field: "name", Message: "is too long"}
	}
	if len(potency) > maxFieldLength {
		return entities.Medicine{}, &ValidationError{Field: "potency", Message: "is too long"}
	}

	price, err := ParsePrice(input.Price)
	if err != nil {
		return entities.Medicine{}, err
	}

	return entities.Medicine{Name: name, Potency: potency, Price: price}, nil
}

// ParsePrice accepts the literal text of a JSON number or numeric string
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "price", Message: "is required"}
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ValidationError{Field: "price", Message: "must be a number"}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Message: "must not be negative"}
	}

	return price, nil
}
