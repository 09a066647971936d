package importer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EntitySupplier = "supplier"
	EntityProduct  = "product"
)

// Fields each entity sheet understands. A header matches a field when it
// equals the field name or one of its aliases, ignoring case.
var entityFields = map[string][]string{
	EntitySupplier: {"name", "company", "email", "phone"},
	EntityProduct:  {"supplier_email", "name", "quantity_in_stock", "quantity_sold", "unit_price", "revenue"},
}

// MappingConfig represents the YAML mapping configuration
type MappingConfig struct {
	Version int                    `yaml:"version"`
	Sheets  map[string]SheetConfig `yaml:"sheets"`
}

type SheetConfig struct {
	Entity  string              `yaml:"entity"`
	Aliases map[string][]string `yaml:"aliases"`
}

// DefaultMapping is used when no mapping file is configured.
func DefaultMapping() *MappingConfig {
	return &MappingConfig{
		Version: 1,
		Sheets: map[string]SheetConfig{
			"Suppliers": {
				Entity: EntitySupplier,
				Aliases: map[string][]string{
					"name":    {"Supplier", "Contact Name"},
					"company": {"Company Name"},
					"email":   {"E-mail", "Email Address"},
					"phone":   {"Phone Number", "Tel"},
				},
			},
			"Products": {
				Entity: EntityProduct,
				Aliases: map[string][]string{
					"supplier_email":    {"Supplier Email", "Supplier"},
					"name":              {"Product", "Product Name"},
					"quantity_in_stock": {"In Stock", "Stock"},
					"quantity_sold":     {"Sold", "Qty Sold"},
					"unit_price":        {"Unit Price", "Price"},
					"revenue":           {"Revenue"},
				},
			},
		},
	}
}

// LoadMapping reads a YAML mapping from path. An empty path yields the
// default mapping.
func LoadMapping(path string) (*MappingConfig, error) {
	if path == "" {
		return DefaultMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes and validates a YAML mapping document.
func ParseMapping(data []byte) (*MappingConfig, error) {
	var m MappingConfig
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if len(m.Sheets) == 0 {
		return nil, fmt.Errorf("mapping defines no sheets")
	}
	for name, sc := range m.Sheets {
		fields, ok := entityFields[sc.Entity]
		if !ok {
			return nil, fmt.Errorf("sheet %q: unknown entity %q", name, sc.Entity)
		}
		for field := range sc.Aliases {
			if !contains(fields, field) {
				return nil, fmt.Errorf("sheet %q: %s has no field %q", name, sc.Entity, field)
			}
		}
	}
	return &m, nil
}

// fieldFor resolves a header cell to an entity field, or "" if unknown.
func (sc SheetConfig) fieldFor(header string) string {
	h := strings.TrimSpace(header)
	for _, field := range entityFields[sc.Entity] {
		if strings.EqualFold(h, field) {
			return field
		}
	}
	for _, field := range entityFields[sc.Entity] {
		for _, alias := range sc.Aliases[field] {
			if strings.EqualFold(h, alias) {
				return field
			}
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
