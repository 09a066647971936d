package store

import (
	"context"
	"database/sql"
	"errors"

	"supplier-inventory-api/internal/models"
)

const supplierColumns = "id, name, company, email, phone"

func scanSupplier(row interface{ Scan(...any) error }) (models.Supplier, error) {
	var sp models.Supplier
	err := row.Scan(&sp.ID, &sp.Name, &sp.Company, &sp.Email, &sp.Phone)
	return sp, err
}

func (s *Store) CreateSupplier(ctx context.Context, sp models.Supplier) (models.Supplier, error) {
	return scanSupplier(s.queryRow(ctx, `
		INSERT INTO supplier (name, company, email, phone)
		VALUES (?, ?, ?, ?)
		RETURNING `+supplierColumns,
		sp.Name, sp.Company, sp.Email, sp.Phone))
}

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	rows, err := s.query(ctx, `SELECT `+supplierColumns+` FROM supplier ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []models.Supplier{}
	for rows.Next() {
		sp, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, rows.Err()
}

func (s *Store) GetSupplier(ctx context.Context, id int64) (models.Supplier, error) {
	sp, err := scanSupplier(s.queryRow(ctx, `SELECT `+supplierColumns+` FROM supplier WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrNotFound
	}
	return sp, err
}

// FindSupplierByEmail returns the lowest-id supplier with the given email.
func (s *Store) FindSupplierByEmail(ctx context.Context, email string) (models.Supplier, error) {
	sp, err := scanSupplier(s.queryRow(ctx, `
		SELECT `+supplierColumns+` FROM supplier
		WHERE email = ? ORDER BY id ASC LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrNotFound
	}
	return sp, err
}

// UpdateSupplier overwrites every mutable column of the row with sp.ID.
func (s *Store) UpdateSupplier(ctx context.Context, sp models.Supplier) (models.Supplier, error) {
	out, err := scanSupplier(s.queryRow(ctx, `
		UPDATE supplier SET name = ?, company = ?, email = ?, phone = ?
		WHERE id = ?
		RETURNING `+supplierColumns,
		sp.Name, sp.Company, sp.Email, sp.Phone, sp.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, ErrNotFound
	}
	return out, err
}

// DeleteSupplier removes the row and reports whether it existed. Products
// that reference the supplier are left untouched.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM supplier WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return deleted(res)
}
