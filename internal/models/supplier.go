package models

// Supplier is a vendor whose email receives product notifications.
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// SupplierInput is the create/update payload. Every field is required.
type SupplierInput struct {
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

// Validate reports the fields missing from the payload.
func (in SupplierInput) Validate() error {
	var missing []string
	if in.Name == nil {
		missing = append(missing, "name")
	}
	if in.Company == nil {
		missing = append(missing, "company")
	}
	if in.Email == nil {
		missing = append(missing, "email")
	}
	if in.Phone == nil {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Supplier overwrites all mutable fields of a supplier with id.
// Callers must Validate first.
func (in SupplierInput) Supplier(id int64) Supplier {
	return Supplier{
		ID:      id,
		Name:    *in.Name,
		Company: *in.Company,
		Email:   *in.Email,
		Phone:   *in.Phone,
	}
}
