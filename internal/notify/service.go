// Package notify emails suppliers about their products.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"supplier-inventory-api/internal/config"
	"supplier-inventory-api/internal/models"
)

// ErrDelivery matches every *DeliveryError via errors.Is.
var ErrDelivery = errors.New("notification delivery failed")

// DeliveryError wraps a failure reported by the mail relay.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver notification to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer hands a message to the mail relay.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Lookup resolves products and suppliers. *inventory.Service implements it
// and reports misses as inventory.ErrNotFound.
type Lookup interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	GetSupplier(ctx context.Context, id int64) (models.Supplier, error)
}

// Request is the notification payload. Both fields are required.
type Request struct {
	Message *string `json:"message"`
	Subject *string `json:"subject"`
}

func (r Request) Validate() error {
	var missing []string
	if r.Message == nil {
		missing = append(missing, "message")
	}
	if r.Subject == nil {
		missing = append(missing, "subject")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

type Service struct {
	lookup    Lookup
	mailer    Mailer
	limiter   *rate.Limiter
	signature string
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewService builds a notification service that sends through mailer at
// most cfg.RatePerMinute messages per minute.
func NewService(lookup Lookup, mailer Mailer, cfg config.MailConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Service{
		lookup:    lookup,
		mailer:    mailer,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		signature: cfg.Signature,
		logger:    logger.Named("notify"),
		tracer:    otel.Tracer("supplier-inventory-api/notify"),
	}
}

// NotifySupplierForProduct emails the supplier of productID. It fails with a
// not-found error when the product is absent or its supplier was deleted,
// and with a *DeliveryError when the relay rejects the message. Nothing is
// retried.
func (s *Service) NotifySupplierForProduct(ctx context.Context, productID int64, subject, message string) (err error) {
	ctx, span := s.tracer.Start(ctx, "notify.NotifySupplierForProduct",
		trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	product, err := s.lookup.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	supplier, err := s.lookup.GetSupplier(ctx, product.SuppliedByID)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int64("supplier.id", supplier.ID))

	html, err := renderBody(message, s.signature)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for mail relay slot: %w", err)
	}

	msg := Message{To: supplier.Email, Subject: subject, HTML: html}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("notification failed",
			zap.Int64("product_id", productID),
			zap.Int64("supplier_id", supplier.ID),
			zap.Error(err),
		)
		return &DeliveryError{Recipient: supplier.Email, Err: err}
	}

	s.logger.Info("notification sent",
		zap.Int64("product_id", productID),
		zap.Int64("supplier_id", supplier.ID),
	)
	return nil
}
