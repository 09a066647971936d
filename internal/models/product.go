package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and revenue go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// MoneyPlaces is the scale of unit_price and revenue columns.
const MoneyPlaces = 2

// Product is an inventory item owned by exactly one supplier.
// SuppliedByID is not enforced by the store and may dangle after the
// supplier is deleted.
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	QuantityInStock int64           `json:"quantity_in_stock"`
	QuantitySold    int64           `json:"quantity_sold"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Revenue         decimal.Decimal `json:"revenue"`
	SuppliedByID    int64           `json:"supplied_by_id"`
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name            *string          `json:"name"`
	QuantityInStock *int64           `json:"quantity_in_stock"`
	QuantitySold    *int64           `json:"quantity_sold"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	Revenue         *decimal.Decimal `json:"revenue"`
}

// UnmarshalJSON accepts integral numbers such as 5.0 for the quantity fields.
func (in *ProductInput) UnmarshalJSON(b []byte) error {
	type plain ProductInput
	var raw struct {
		plain
		QuantityInStock *decimal.Decimal `json:"quantity_in_stock"`
		QuantitySold    *decimal.Decimal `json:"quantity_sold"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := ProductInput(raw.plain)
	var err error
	if out.QuantityInStock, err = count("quantity_in_stock", raw.QuantityInStock); err != nil {
		return err
	}
	if out.QuantitySold, err = count("quantity_sold", raw.QuantitySold); err != nil {
		return err
	}
	*in = out
	return nil
}

func count(field string, d *decimal.Decimal) (*int64, error) {
	if d == nil {
		return nil, nil
	}
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return nil, fmt.Errorf("%s: %s is not an integer", field, d)
	}
	n := d.IntPart()
	return &n, nil
}

// ValidateCreate requires a name; numeric fields default to zero.
func (in ProductInput) ValidateCreate() error {
	if in.Name == nil {
		return &ValidationError{Fields: []string{"name"}}
	}
	return nil
}

// ValidateUpdate requires every field, since an update overwrites the whole row.
func (in ProductInput) ValidateUpdate() error {
	var missing []string
	if in.Name == nil {
		missing = append(missing, "name")
	}
	if in.QuantityInStock == nil {
		missing = append(missing, "quantity_in_stock")
	}
	if in.QuantitySold == nil {
		missing = append(missing, "quantity_sold")
	}
	if in.UnitPrice == nil {
		missing = append(missing, "unit_price")
	}
	if in.Revenue == nil {
		missing = append(missing, "revenue")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Product builds the row described by the payload with omitted numeric
// fields set to zero. Revenue holds the payload's base revenue as is.
func (in ProductInput) Product(id, supplierID int64) Product {
	p := Product{ID: id, SuppliedByID: supplierID}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.QuantityInStock != nil {
		p.QuantityInStock = *in.QuantityInStock
	}
	if in.QuantitySold != nil {
		p.QuantitySold = *in.QuantitySold
	}
	if in.UnitPrice != nil {
		p.UnitPrice = in.UnitPrice.Round(MoneyPlaces)
	}
	if in.Revenue != nil {
		p.Revenue = *in.Revenue
	}
	return p
}

// AccumulateRevenue returns base + sold*unitPrice rounded to MoneyPlaces.
// base is whatever the caller supplied, not the stored revenue.
func AccumulateRevenue(base decimal.Decimal, sold int64, unitPrice decimal.Decimal) decimal.Decimal {
	return base.Add(unitPrice.Mul(decimal.NewFromInt(sold))).Round(MoneyPlaces)
}
