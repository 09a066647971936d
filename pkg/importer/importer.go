package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"supplier-inventory-api/internal/inventory"
	"supplier-inventory-api/internal/models"
)

// ErrTooManyErrors stops an import once the row error budget is spent.
var ErrTooManyErrors = errors.New("too many row errors")

// Catalog is the inventory surface the importer writes through.
// *inventory.Service implements it.
type Catalog interface {
	FindSupplierByEmail(ctx context.Context, email string) (models.Supplier, error)
	CreateSupplier(ctx context.Context, in models.SupplierInput) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, in models.SupplierInput) (models.Supplier, error)
	FindProduct(ctx context.Context, supplierID int64, name string) (models.Product, error)
	CreateProduct(ctx context.Context, supplierID int64, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error)
}

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	Mapping   *MappingConfig // nil uses DefaultMapping
	DryRun    bool
	MaxErrors int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary contains the import statistics for a single sheet
type SheetSummary struct {
	Name     string     `json:"name"`
	Entity   string     `json:"entity"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// ImportSummary contains the overall import statistics
type ImportSummary struct {
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	DryRun   bool           `json:"dry_run"`
}

type outcome int

const (
	inserted outcome = iota + 1
	updated
)

// pendingSupplier marks a supplier that a dry run would have created.
const pendingSupplier int64 = 0

type run struct {
	catalog   Catalog
	opts      ImportOptions
	errCount  int
	suppliers map[string]int64 // email -> id
}

// ImportExcel reads an .xlsx workbook and upserts the suppliers and products
// found on the mapped sheets. Supplier sheets are processed before product
// sheets so product rows can reference suppliers from the same workbook.
func ImportExcel(ctx context.Context, catalog Catalog, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{
		DryRun: opts.DryRun,
		Sheets: []SheetSummary{},
	}

	if opts.Mapping == nil {
		opts.Mapping = DefaultMapping()
	}
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}

	// xlsx.OpenReaderAt needs an io.ReaderAt, so buffer the upload
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	im := &run{catalog: catalog, opts: opts, suppliers: map[string]int64{}}

	for _, entity := range []string{EntitySupplier, EntityProduct} {
		for _, sheet := range xlFile.Sheets {
			sc, ok := opts.Mapping.Sheets[sheet.Name]
			if !ok || sc.Entity != entity {
				continue
			}

			sheetSummary, err := im.processSheet(ctx, sheet, sc)
			summary.Sheets = append(summary.Sheets, sheetSummary)
			summary.Inserted += sheetSummary.Inserted
			summary.Updated += sheetSummary.Updated
			summary.Skipped += sheetSummary.Skipped
			summary.Errors += sheetSummary.Errors
			if err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

func (im *run) processSheet(ctx context.Context, sheet *xlsx.Sheet, sc SheetConfig) (SheetSummary, error) {
	summary := SheetSummary{Name: sheet.Name, Entity: sc.Entity}
	if sheet.MaxRow == 0 {
		return summary, nil
	}

	// column index -> field
	columns := make(map[int]string)
	for col := 0; col < sheet.MaxCol; col++ {
		cell, err := sheet.Cell(0, col)
		if err != nil {
			return summary, fmt.Errorf("sheet %s: read header: %w", sheet.Name, err)
		}
		if field := sc.fieldFor(cell.String()); field != "" {
			columns[col] = field
		}
	}

	for rowIdx := 1; rowIdx < sheet.MaxRow; rowIdx++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		values := make(map[string]string, len(columns))
		for col, field := range columns {
			cell, err := sheet.Cell(rowIdx, col)
			if err != nil {
				return summary, fmt.Errorf("sheet %s: read row %d: %w", sheet.Name, rowIdx+1, err)
			}
			if v := strings.TrimSpace(cell.String()); v != "" {
				values[field] = v
			}
		}

		if len(values) == 0 {
			summary.Skipped++
			continue
		}

		var (
			res outcome
			err error
		)
		switch sc.Entity {
		case EntitySupplier:
			res, err = im.supplierRow(ctx, values)
		case EntityProduct:
			res, err = im.productRow(ctx, values)
		}
		if err != nil {
			summary.Errors++
			summary.Samples = append(summary.Samples, RowError{
				Sheet:   sheet.Name,
				Row:     rowIdx + 1,
				Message: err.Error(),
			})
			im.errCount++
			if im.errCount > im.opts.MaxErrors {
				return summary, fmt.Errorf("%w (%d), stopping import", ErrTooManyErrors, im.errCount)
			}
			continue
		}

		switch res {
		case inserted:
			summary.Inserted++
		case updated:
			summary.Updated++
		}
	}

	return summary, nil
}

// supplierRow upserts a supplier keyed by email.
func (im *run) supplierRow(ctx context.Context, values map[string]string) (outcome, error) {
	in := models.SupplierInput{
		Name:    optional(values, "name"),
		Company: optional(values, "company"),
		Email:   optional(values, "email"),
		Phone:   optional(values, "phone"),
	}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	email := *in.Email

	id, seen := im.suppliers[email]
	if !seen {
		existing, err := im.catalog.FindSupplierByEmail(ctx, email)
		switch {
		case err == nil:
			id, seen = existing.ID, true
		case !errors.Is(err, inventory.ErrNotFound):
			return 0, err
		}
	}

	if seen {
		im.suppliers[email] = id
		if !im.opts.DryRun && id != pendingSupplier {
			if _, err := im.catalog.UpdateSupplier(ctx, id, in); err != nil {
				return 0, err
			}
		}
		return updated, nil
	}

	if im.opts.DryRun {
		im.suppliers[email] = pendingSupplier
		return inserted, nil
	}
	created, err := im.catalog.CreateSupplier(ctx, in)
	if err != nil {
		return 0, err
	}
	im.suppliers[email] = created.ID
	return inserted, nil
}

// productRow upserts a product keyed by supplier and name.
func (im *run) productRow(ctx context.Context, values map[string]string) (outcome, error) {
	email, ok := values["supplier_email"]
	if !ok {
		return 0, &models.ValidationError{Fields: []string{"supplier_email"}}
	}
	in, err := productInput(values)
	if err != nil {
		return 0, err
	}
	if err := in.ValidateCreate(); err != nil {
		return 0, err
	}

	supplierID, err := im.resolveSupplier(ctx, email)
	if err != nil {
		return 0, err
	}
	if supplierID == pendingSupplier {
		return inserted, nil
	}

	existing, err := im.catalog.FindProduct(ctx, supplierID, *in.Name)
	switch {
	case err == nil:
		if err := in.ValidateUpdate(); err != nil {
			return 0, err
		}
		if !im.opts.DryRun {
			if _, err := im.catalog.UpdateProduct(ctx, existing.ID, in); err != nil {
				return 0, err
			}
		}
		return updated, nil
	case errors.Is(err, inventory.ErrNotFound):
		if !im.opts.DryRun {
			if _, err := im.catalog.CreateProduct(ctx, supplierID, in); err != nil {
				return 0, err
			}
		}
		return inserted, nil
	default:
		return 0, err
	}
}

func (im *run) resolveSupplier(ctx context.Context, email string) (int64, error) {
	if id, ok := im.suppliers[email]; ok {
		return id, nil
	}
	sp, err := im.catalog.FindSupplierByEmail(ctx, email)
	if errors.Is(err, inventory.ErrNotFound) {
		return 0, fmt.Errorf("unknown supplier %q", email)
	}
	if err != nil {
		return 0, err
	}
	im.suppliers[email] = sp.ID
	return sp.ID, nil
}

func productInput(values map[string]string) (models.ProductInput, error) {
	in := models.ProductInput{Name: optional(values, "name")}
	var err error
	if in.QuantityInStock, err = parseCount(values, "quantity_in_stock"); err != nil {
		return in, err
	}
	if in.QuantitySold, err = parseCount(values, "quantity_sold"); err != nil {
		return in, err
	}
	if in.UnitPrice, err = parseMoney(values, "unit_price"); err != nil {
		return in, err
	}
	if in.Revenue, err = parseMoney(values, "revenue"); err != nil {
		return in, err
	}
	return in, nil
}

func optional(values map[string]string, field string) *string {
	v, ok := values[field]
	if !ok {
		return nil
	}
	return &v
}

// parseCount accepts integers, including numeric cells rendered as "10.0".
func parseCount(values map[string]string, field string) (*int64, error) {
	v, ok := values[field]
	if !ok {
		return nil, nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return &n, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !d.IsInteger() {
		return nil, fmt.Errorf("failed to parse %s: %q is not an integer", field, v)
	}
	n := d.IntPart()
	return &n, nil
}

func parseMoney(values map[string]string, field string) (*decimal.Decimal, error) {
	v, ok := values[field]
	if !ok {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "$"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %q is not a number", field, v)
	}
	return &d, nil
}
