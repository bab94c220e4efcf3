package prescription

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/giygas/mediscript-api/entities"
)

// TaxRate is applied to the subtotal (8%)
var TaxRate = apd.New(8, -2)

var decimalCtx = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}()

// ComputeBilling sums the prices and applies the tax. Tax and total are derived
// from the unrounded subtotal; each value is then rounded half-up to cents.
func ComputeBilling(prices []float64) (entities.Billing, error) {
	subtotal := new(apd.Decimal)
	for _, p := range prices {
		d, err := new(apd.Decimal).SetFloat64(p)
		if err != nil {
			return entities.Billing{}, fmt.Errorf("invalid price %v: %w", p, err)
		}
		if _, err := decimalCtx.Add(subtotal, subtotal, d); err != nil {
			return entities.Billing{}, fmt.Errorf("failed to sum prices: %w", err)
		}
	}

	tax := new(apd.Decimal)
	if _, err := decimalCtx.Mul(tax, subtotal, TaxRate); err != nil {
		return entities.Billing{}, fmt.Errorf("failed to compute tax: %w", err)
	}

	total := new(apd.Decimal)
	if _, err := decimalCtx.Add(total, subtotal, tax); err != nil {
		return entities.Billing{}, fmt.Errorf("failed to compute total: %w", err)
	}

	var billing entities.Billing
	for _, v := range []struct {
		src *apd.Decimal
		dst *float64
	}{
		{subtotal, &billing.Subtotal},
		{tax, &billing.Tax},
		{total, &billing.Total},
	} {
		f, err := toCents(v.src)
		if err != nil {
			return entities.Billing{}, err
		}
		*v.dst = f
	}

	return billing, nil
}

func toCents(d *apd.Decimal) (float64, error) {
	rounded := new(apd.Decimal)
	if _, err := decimalCtx.Quantize(rounded, d, -2); err != nil {
		return 0, fmt.Errorf("failed to round %s: %w", d, err)
	}
	return rounded.Float64()
}
