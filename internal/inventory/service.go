// Package inventory implements supplier and product management on top of a
// relational repository.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"supplier-inventory-api/internal/models"
	"supplier-inventory-api/internal/store"
)

// Repository is the persistence the service needs. *store.Store implements it.
type Repository interface {
	CreateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (models.Supplier, error)
	FindSupplierByEmail(ctx context.Context, email string) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) (bool, error)

	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	FindProduct(ctx context.Context, supplierID int64, name string) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   Repository
	logger *zap.Logger
	tracer trace.Tracer
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger.Named("inventory"),
		tracer: otel.Tracer("supplier-inventory-api/inventory"),
	}
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "inventory."+op, trace.WithAttributes(attrs...))
}

// finish records err on the span and ends it.
func finish(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, models.ErrValidation) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// notFound translates a store miss into a typed lookup error.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}

func (s *Service) CreateSupplier(ctx context.Context, in models.SupplierInput) (sp models.Supplier, err error) {
	ctx, span := s.start(ctx, "CreateSupplier")
	defer func() { finish(span, err) }()

	if err := in.Validate(); err != nil {
		return models.Supplier{}, err
	}
	sp, err = s.repo.CreateSupplier(ctx, in.Supplier(0))
	if err != nil {
		return models.Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	s.logger.Info("supplier created", zap.Int64("supplier_id", sp.ID))
	return sp, nil
}

func (s *Service) ListSuppliers(ctx context.Context) (_ []models.Supplier, err error) {
	ctx, span := s.start(ctx, "ListSuppliers")
	defer func() { finish(span, err) }()

	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (_ models.Supplier, err error) {
	ctx, span := s.start(ctx, "GetSupplier", attribute.Int64("supplier.id", id))
	defer func() { finish(span, err) }()

	sp, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return models.Supplier{}, notFound(err, EntitySupplier, id)
	}
	return sp, nil
}

// FindSupplierByEmail resolves a supplier by its contact email. The id in a
// NotFoundError is zero since the lookup is not by id.
func (s *Service) FindSupplierByEmail(ctx context.Context, email string) (_ models.Supplier, err error) {
	ctx, span := s.start(ctx, "FindSupplierByEmail")
	defer func() { finish(span, err) }()

	sp, err := s.repo.FindSupplierByEmail(ctx, email)
	if err != nil {
		return models.Supplier{}, notFound(err, EntitySupplier, 0)
	}
	return sp, nil
}

// UpdateSupplier overwrites name, company, email and phone together.
func (s *Service) UpdateSupplier(ctx context.Context, id int64, in models.SupplierInput) (_ models.Supplier, err error) {
	ctx, span := s.start(ctx, "UpdateSupplier", attribute.Int64("supplier.id", id))
	defer func() { finish(span, err) }()

	if err := in.Validate(); err != nil {
		return models.Supplier{}, err
	}
	sp, err := s.repo.UpdateSupplier(ctx, in.Supplier(id))
	if err != nil {
		return models.Supplier{}, notFound(err, EntitySupplier, id)
	}
	s.logger.Info("supplier updated", zap.Int64("supplier_id", id))
	return sp, nil
}

// DeleteSupplier reports false without error when the supplier is absent.
// Products of a deleted supplier keep their reference.
func (s *Service) DeleteSupplier(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.start(ctx, "DeleteSupplier", attribute.Int64("supplier.id", id))
	defer func() { finish(span, err) }()

	ok, err := s.repo.DeleteSupplier(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete supplier %d: %w", id, err)
	}
	if ok {
		s.logger.Info("supplier deleted", zap.Int64("supplier_id", id))
	}
	return ok, nil
}

// CreateProduct stores a product under supplierID with
// revenue = revenue + quantity_sold * unit_price taken from the payload.
// The supplier lookup and the insert are separate statements.
func (s *Service) CreateProduct(ctx context.Context, supplierID int64, in models.ProductInput) (_ models.Product, err error) {
	ctx, span := s.start(ctx, "CreateProduct", attribute.Int64("supplier.id", supplierID))
	defer func() { finish(span, err) }()

	if err := in.ValidateCreate(); err != nil {
		return models.Product{}, err
	}
	if _, err := s.repo.GetSupplier(ctx, supplierID); err != nil {
		return models.Product{}, notFound(err, EntitySupplier, supplierID)
	}

	p := in.Product(0, supplierID)
	p.Revenue = models.AccumulateRevenue(p.Revenue, p.QuantitySold, p.UnitPrice)

	p, err = s.repo.CreateProduct(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.Int64("supplier_id", supplierID),
		zap.String("revenue", p.Revenue.String()),
	)
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context) (_ []models.Product, err error) {
	ctx, span := s.start(ctx, "ListProducts")
	defer func() { finish(span, err) }()

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (_ models.Product, err error) {
	ctx, span := s.start(ctx, "GetProduct", attribute.Int64("product.id", id))
	defer func() { finish(span, err) }()

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, notFound(err, EntityProduct, id)
	}
	return p, nil
}

// FindProduct resolves a product by supplier and name.
func (s *Service) FindProduct(ctx context.Context, supplierID int64, name string) (_ models.Product, err error) {
	ctx, span := s.start(ctx, "FindProduct", attribute.Int64("supplier.id", supplierID))
	defer func() { finish(span, err) }()

	p, err := s.repo.FindProduct(ctx, supplierID, name)
	if err != nil {
		return models.Product{}, notFound(err, EntityProduct, 0)
	}
	return p, nil
}

// UpdateProduct overwrites every field from the payload. Revenue is
// recomputed from the payload's revenue, quantity_sold and unit_price; the
// stored revenue does not contribute.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (_ models.Product, err error) {
	ctx, span := s.start(ctx, "UpdateProduct", attribute.Int64("product.id", id))
	defer func() { finish(span, err) }()

	if err := in.ValidateUpdate(); err != nil {
		return models.Product{}, err
	}

	p := in.Product(id, 0)
	p.Revenue = models.AccumulateRevenue(p.Revenue, p.QuantitySold, p.UnitPrice)

	p, err = s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return models.Product{}, notFound(err, EntityProduct, id)
	}
	s.logger.Info("product updated", zap.Int64("product_id", id), zap.String("revenue", p.Revenue.String()))
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.start(ctx, "DeleteProduct", attribute.Int64("product.id", id))
	defer func() { finish(span, err) }()

	ok, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	if ok {
		s.logger.Info("product deleted", zap.Int64("product_id", id))
	}
	return ok, nil
}
