package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"supplier-inventory-api/internal/inventory"
	"supplier-inventory-api/internal/testutil"
)

type sheetData struct {
	name string
	rows [][]string
}

func workbook(t *testing.T, sheets ...sheetData) *bytes.Buffer {
	t.Helper()
	f := xlsx.NewFile()
	for _, sd := range sheets {
		sh, err := f.AddSheet(sd.name)
		require.NoError(t, err)
		for _, values := range sd.rows {
			row := sh.AddRow()
			for _, v := range values {
				row.AddCell().SetString(v)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

var suppliersSheet = sheetData{"Suppliers", [][]string{
	{"Contact Name", "Company", "E-mail", "Phone"},
	{"Ada", "Acme", "ada@acme.test", "555-0100"},
	{"Grace", "Globex", "grace@globex.test", "555-0101"},
}}

var productsSheet = sheetData{"Products", [][]string{
	{"Supplier Email", "Product", "In Stock", "Sold", "Unit Price", "Revenue"},
	{"ada@acme.test", "Widget", "10", "5", "2.00", "100"},
	{"", "", "", "", "", ""},
	{"grace@globex.test", "Gadget", "3", "0", "9.99", "0"},
}}

func newCatalog(t *testing.T) *inventory.Service {
	t.Helper()
	return inventory.NewService(testutil.NewSQLiteStore(t), nil)
}

func TestImportExcelCreatesCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(t)

	// product sheet first: suppliers must still be processed before it
	sum, err := ImportExcel(ctx, catalog, workbook(t, productsSheet, suppliersSheet), ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Inserted)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 0, sum.Errors)
	require.Len(t, sum.Sheets, 2)
	assert.Equal(t, "Suppliers", sum.Sheets[0].Name)
	assert.Equal(t, EntitySupplier, sum.Sheets[0].Entity)
	assert.Equal(t, "Products", sum.Sheets[1].Name)

	ada, err := catalog.FindSupplierByEmail(ctx, "ada@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "Acme", ada.Company)

	widget, err := catalog.FindProduct(ctx, ada.ID, "Widget")
	require.NoError(t, err)
	assert.Equal(t, int64(10), widget.QuantityInStock)
	assert.True(t, widget.Revenue.Equal(decimal.NewFromInt(110)), "revenue = %s", widget.Revenue)
}

func TestImportExcelUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(t)

	_, err := ImportExcel(ctx, catalog, workbook(t, suppliersSheet, productsSheet), ImportOptions{})
	require.NoError(t, err)

	sum, err := ImportExcel(ctx, catalog, workbook(t, suppliersSheet, productsSheet), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Inserted)
	assert.Equal(t, 4, sum.Updated)

	suppliers, err := catalog.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)

	products, err := catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	// revenue is recomputed from the row, not accumulated across imports
	assert.True(t, products[0].Revenue.Equal(decimal.NewFromInt(110)), "revenue = %s", products[0].Revenue)
}

func TestImportExcelDryRun(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(t)

	sum, err := ImportExcel(ctx, catalog, workbook(t, suppliersSheet, productsSheet), ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, sum.DryRun)
	assert.Equal(t, 4, sum.Inserted)
	assert.Equal(t, 0, sum.Errors)

	suppliers, err := catalog.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
	products, err := catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestImportExcelRowErrors(t *testing.T) {
	ctx := context.Background()
	catalog := newCatalog(t)

	bad := sheetData{"Products", [][]string{
		{"supplier_email", "name", "quantity_sold", "unit_price"},
		{"nobody@acme.test", "Widget", "1", "1"},
		{"ada@acme.test", "Widget", "many", "1"},
		{"ada@acme.test", "", "1", "1"},
		{"ada@acme.test", "Gizmo", "2", "1.25"},
	}}

	sum, err := ImportExcel(ctx, catalog, workbook(t, suppliersSheet, bad), ImportOptions{})
	require.NoError(t, err)

	products := sum.Sheets[1]
	assert.Equal(t, 1, products.Inserted)
	assert.Equal(t, 3, products.Errors)
	require.Len(t, products.Samples, 3)
	assert.Equal(t, 2, products.Samples[0].Row)
	assert.Contains(t, products.Samples[0].Message, "unknown supplier")
	assert.Equal(t, 3, products.Samples[1].Row)
	assert.Contains(t, products.Samples[1].Message, "quantity_sold")
	assert.Equal(t, 4, products.Samples[2].Row)
	assert.Contains(t, products.Samples[2].Message, "name")
}

func TestImportExcelStopsAfterMaxErrors(t *testing.T) {
	catalog := newCatalog(t)

	bad := sheetData{"Suppliers", [][]string{
		{"name", "company", "email", "phone"},
		{"Ada", "", "", ""},
		{"Grace", "", "", ""},
		{"Linus", "", "", ""},
	}}

	sum, err := ImportExcel(context.Background(), catalog, workbook(t, bad), ImportOptions{MaxErrors: 1})
	require.ErrorIs(t, err, ErrTooManyErrors)
	assert.Equal(t, 2, sum.Errors)
}

func TestImportExcelRejectsInvalidWorkbook(t *testing.T) {
	_, err := ImportExcel(context.Background(), newCatalog(t), strings.NewReader("not a workbook"), ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open Excel file")
}

func TestImportExcelIgnoresUnmappedSheets(t *testing.T) {
	other := sheetData{"Notes", [][]string{{"anything"}, {"here"}}}
	sum, err := ImportExcel(context.Background(), newCatalog(t), workbook(t, other), ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, sum.Sheets)
}

func TestLoadMapping(t *testing.T) {
	m, err := LoadMapping("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMapping(), m)

	fromFile, err := LoadMapping("../../configs/mapping/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultMapping(), fromFile)

	_, err = LoadMapping("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestParseMappingRejectsUnknownNames(t *testing.T) {
	_, err := ParseMapping([]byte("sheets:\n  S:\n    entity: asset\n"))
	assert.ErrorContains(t, err, `unknown entity "asset"`)

	_, err = ParseMapping([]byte("sheets:\n  S:\n    entity: product\n    aliases:\n      colour: [Color]\n"))
	assert.ErrorContains(t, err, `no field "colour"`)

	_, err = ParseMapping([]byte("version: 1\n"))
	assert.ErrorContains(t, err, "no sheets")
}

func TestFieldFor(t *testing.T) {
	sc := DefaultMapping().Sheets["Products"]
	assert.Equal(t, "unit_price", sc.fieldFor(" unit price "))
	assert.Equal(t, "unit_price", sc.fieldFor("UNIT_PRICE"))
	assert.Equal(t, "supplier_email", sc.fieldFor("Supplier"))
	assert.Equal(t, "", sc.fieldFor("Colour"))
}
