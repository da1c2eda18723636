package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart operations the storefront needs.
type Service interface {
	Get(ctx context.Context, sessionID uuid.UUID) (*Cart, error)
	Add(ctx context.Context, sessionID, productID uuid.UUID) (*Cart, error)
	Remove(ctx context.Context, sessionID, productID uuid.UUID) (*Cart, error)
	SetQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity int) (*Cart, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

type service struct {
	store    Store
	products productLoader
}

// NewService builds a cart service backed by the provided store and catalog.
func NewService(store Store, products productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products}, nil
}

func (s *service) Get(ctx context.Context, sessionID uuid.UUID) (*Cart, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

// Add loads the product from the catalog so the cart always carries the
// catalog's current price, converted to minor units.
func (s *service) Add(ctx context.Context, sessionID, productID uuid.UUID) (*Cart, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart.add(Item{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceCents: money.Cents(product.Price),
		ImageURL:       product.ImageURL,
		FileURL:        product.FileURL,
	})

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) Remove(ctx context.Context, sessionID, productID uuid.UUID) (*Cart, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart.remove(productID)

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) SetQuantity(ctx context.Context, sessionID, productID uuid.UUID, quantity int) (*Cart, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if !cart.setQuantity(productID, quantity) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
