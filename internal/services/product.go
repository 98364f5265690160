package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
	"github.com/ekurmanov/product-catalog/internal/repositories"
)

// Error variables
var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("only the owner of the product can edit it")
)

// Validation rules for the product schema.
const (
	maxNameLength = 120
	minPrice      = 1
)

// Field-level validation messages.
const (
	msgFieldRequired = "This field is required."
	msgNameTooLong   = "Ensure this field has no more than 120 characters."
	msgNameTaken     = "product with this name already exists."
	msgPriceTooLow   = "Ensure this value is greater than or equal to 1."
)

// ValidationError carries field-level validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// IsOwner reports whether the principal created the product.
// Ownership is strict identity equality; there is no shared ownership
// and no admin override.
func IsOwner(principal uuid.UUID, product *models.ProductDB) bool {
	return product != nil && principal == product.CreatedBy
}

// ProductReader defines read operations for products.
type ProductReader interface {
	GetByID(ctx context.Context, productID uuid.UUID) (*models.ProductDB, error)
	GetByName(ctx context.Context, name string) (*models.ProductDB, error)
	List(ctx context.Context, limit, offset int) ([]models.ProductDB, error)
	Count(ctx context.Context) (int64, error)
}

// ProductWriter defines write operations for products.
type ProductWriter interface {
	Save(ctx context.Context, name string, description *string, price float64, createdBy uuid.UUID) (*models.ProductDB, error)
	Update(ctx context.Context, productID uuid.UUID, name string, description *string, price float64) (*models.ProductDB, error)
	Delete(ctx context.Context, productID uuid.UUID) error
}

// ProductService implements the product resource operations: listing,
// retrieval, and owner-gated mutation.
type ProductService struct {
	reader ProductReader
	writer ProductWriter
}

// NewProductService creates a new ProductService instance.
func NewProductService(reader ProductReader, writer ProductWriter) *ProductService {
	return &ProductService{
		reader: reader,
		writer: writer,
	}
}

// List returns one page of products ordered by creation time descending,
// plus the total product count. Pages are numbered from 1; a page past
// the end yields an empty slice, not an error.
func (svc *ProductService) List(ctx context.Context, page, pageSize int) ([]models.ProductDB, int64, error) {
	count, err := svc.reader.Count(ctx)
	if err != nil {
		logger.Log.Errorw("failed to count products", "err", err)
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	products, err := svc.reader.List(ctx, pageSize, offset)
	if err != nil {
		logger.Log.Errorw("failed to list products", "page", page, "err", err)
		return nil, 0, err
	}

	return products, count, nil
}

// Get returns a single product by id.
func (svc *ProductService) Get(ctx context.Context, productID uuid.UUID) (*models.ProductDB, error) {
	product, err := svc.reader.GetByID(ctx, productID)
	if err != nil {
		logger.Log.Errorw("failed to get product", "productID", productID, "err", err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create validates and persists a new product. The owner is always the
// authenticated principal; client payloads cannot assign ownership.
func (svc *ProductService) Create(ctx context.Context, principal uuid.UUID, name string, description *string, price *float64) (*models.ProductDB, error) {
	if err := svc.validate(ctx, name, price, uuid.Nil); err != nil {
		return nil, err
	}

	product, err := svc.writer.Save(ctx, name, description, *price, principal)
	if err != nil {
		// Lost a concurrent create race on the name constraint.
		if errors.Is(err, repositories.ErrProductNameConflict) {
			return nil, &ValidationError{Fields: map[string]string{"name": msgNameTaken}}
		}
		logger.Log.Errorw("failed to save product", "name", name, "err", err)
		return nil, err
	}

	return product, nil
}

// Update applies a partial update to a product owned by the principal.
// Fields left nil keep their stored values. The merged record is
// re-validated before persisting.
func (svc *ProductService) Update(ctx context.Context, principal, productID uuid.UUID, name *string, description *string, price *float64) (*models.ProductDB, error) {
	product, err := svc.reader.GetByID(ctx, productID)
	if err != nil {
		logger.Log.Errorw("failed to get product", "productID", productID, "err", err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if !IsOwner(principal, product) {
		logger.Log.Warnw("update denied", "productID", productID, "principal", principal, "owner", product.CreatedBy)
		return nil, ErrNotProductOwner
	}

	// Merge only the provided fields onto the stored record.
	if name != nil {
		product.Name = *name
	}
	if description != nil {
		product.Description = description
	}
	if price != nil {
		product.Price = *price
	}

	if err := svc.validate(ctx, product.Name, &product.Price, product.ProductID); err != nil {
		return nil, err
	}

	updated, err := svc.writer.Update(ctx, product.ProductID, product.Name, product.Description, product.Price)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNameConflict) {
			return nil, &ValidationError{Fields: map[string]string{"name": msgNameTaken}}
		}
		logger.Log.Errorw("failed to update product", "productID", productID, "err", err)
		return nil, err
	}
	if updated == nil {
		// Row vanished between the read and the write.
		return nil, ErrProductNotFound
	}

	return updated, nil
}

// Delete removes a product owned by the principal.
func (svc *ProductService) Delete(ctx context.Context, principal, productID uuid.UUID) error {
	product, err := svc.reader.GetByID(ctx, productID)
	if err != nil {
		logger.Log.Errorw("failed to get product", "productID", productID, "err", err)
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	if !IsOwner(principal, product) {
		logger.Log.Warnw("delete denied", "productID", productID, "principal", principal, "owner", product.CreatedBy)
		return ErrNotProductOwner
	}

	if err := svc.writer.Delete(ctx, product.ProductID); err != nil {
		logger.Log.Errorw("failed to delete product", "productID", productID, "err", err)
		return err
	}

	return nil
}

// validate checks the product schema rules and aggregates failures into a
// single ValidationError. selfID excludes the record itself from the
// uniqueness check on update.
func (svc *ProductService) validate(ctx context.Context, name string, price *float64, selfID uuid.UUID) error {
	fields := make(map[string]string)

	switch {
	case name == "":
		fields["name"] = msgFieldRequired
	case utf8.RuneCountInString(name) > maxNameLength:
		fields["name"] = msgNameTooLong
	default:
		existing, err := svc.reader.GetByName(ctx, name)
		if err != nil {
			logger.Log.Errorw("failed to check name uniqueness", "name", name, "err", err)
			return err
		}
		if existing != nil && existing.ProductID != selfID {
			fields["name"] = msgNameTaken
		}
	}

	switch {
	case price == nil:
		fields["price"] = msgFieldRequired
	case *price < minPrice:
		fields["price"] = msgPriceTooLow
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
