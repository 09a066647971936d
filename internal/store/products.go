package store

import (
	"context"
	"database/sql"
	"errors"

	"supplier-inventory-api/internal/models"
)

const productColumns = "id, name, quantity_in_stock, quantity_sold, unit_price, revenue, supplied_by_id"

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.QuantityInStock, &p.QuantitySold, &p.UnitPrice, &p.Revenue, &p.SuppliedByID)
	return p, err
}

func (s *Store) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	return scanProduct(s.queryRow(ctx, `
		INSERT INTO product (name, quantity_in_stock, quantity_sold, unit_price, revenue, supplied_by_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+productColumns,
		p.Name, p.QuantityInStock, p.QuantitySold, p.UnitPrice, p.Revenue, p.SuppliedByID))
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.query(ctx, `SELECT `+productColumns+` FROM product ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(s.queryRow(ctx, `SELECT `+productColumns+` FROM product WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

// FindProduct returns the lowest-id product named name supplied by supplierID.
func (s *Store) FindProduct(ctx context.Context, supplierID int64, name string) (models.Product, error) {
	p, err := scanProduct(s.queryRow(ctx, `
		SELECT `+productColumns+` FROM product
		WHERE supplied_by_id = ? AND name = ? ORDER BY id ASC LIMIT 1`, supplierID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

// UpdateProduct overwrites the stock, price and revenue columns of p.ID.
// The supplier reference is never changed by an update.
func (s *Store) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	out, err := scanProduct(s.queryRow(ctx, `
		UPDATE product
		SET name = ?, quantity_in_stock = ?, quantity_sold = ?, unit_price = ?, revenue = ?
		WHERE id = ?
		RETURNING `+productColumns,
		p.Name, p.QuantityInStock, p.QuantitySold, p.UnitPrice, p.Revenue, p.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	return out, err
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM product WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return deleted(res)
}
