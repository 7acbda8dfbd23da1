package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type propertyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	Properties   propertyFinder
}

// Service exposes business rules for saved properties.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListDTO, error)
	AddItem(ctx context.Context, userID, propertyID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, propertyID uuid.UUID) error
}

type service struct {
	repo       *Repository
	properties propertyFinder
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Properties == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property finder is required")
	}
	return &service{repo: params.WishlistRepo, properties: params.Properties}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListDTO, error) {
	if userID == uuid.Nil {
		return ListDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	list, err := s.repo.ListItems(ctx, userID, params)
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return list, nil
}

// AddItem ensures the property exists and saves it. Re-adding is a no-op.
func (s *service) AddItem(ctx context.Context, userID, propertyID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if propertyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "property not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if err := s.repo.AddItem(ctx, userID, propertyID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	return nil
}

// RemoveItem drops the saved property regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, userID, propertyID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if propertyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	if err := s.repo.RemoveItem(ctx, userID, propertyID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}
