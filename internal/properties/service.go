package properties

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes property browsing and admin listing management.
type Service interface {
	Browse(ctx context.Context, input ListPropertiesInput) (*PropertyList, error)
	Detail(ctx context.Context, propertyID uuid.UUID) (*PropertyDTO, error)
	AdminList(ctx context.Context, input ListPropertiesInput) (*PropertyList, error)
	Create(ctx context.Context, input CreatePropertyInput) (*PropertyDTO, error)
	Update(ctx context.Context, propertyID uuid.UUID, input UpdatePropertyInput) (*PropertyDTO, error)
	SetStatus(ctx context.Context, propertyID uuid.UUID, status enums.PropertyStatus) (*PropertyDTO, error)
	Delete(ctx context.Context, propertyID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// Status moves an admin can request directly. Funded is reached from active
// either by hand or when the last unit is reserved.
var allowedStatusMoves = map[enums.PropertyStatus][]enums.PropertyStatus{
	enums.PropertyStatusDraft:  {enums.PropertyStatusActive},
	enums.PropertyStatusActive: {enums.PropertyStatusFunded, enums.PropertyStatusClosed},
	enums.PropertyStatusFunded: {enums.PropertyStatusClosed},
}

// NewService builds a properties service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("properties repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Browse(ctx context.Context, input ListPropertiesInput) (*PropertyList, error) {
	// Public browsing only ever sees active listings.
	status := enums.PropertyStatusActive
	input.Status = &status
	return s.list(ctx, input)
}

func (s *service) AdminList(ctx context.Context, input ListPropertiesInput) (*PropertyList, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	return s.list(ctx, input)
}

func (s *service) list(ctx context.Context, input ListPropertiesInput) (*PropertyList, error) {
	if input.PropertyType != nil && !input.PropertyType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid property type filter")
	}
	params := listParams{Limit: input.Params.Limit}
	if input.Params.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	filters := listFilters{}
	if input.City != nil {
		city := strings.TrimSpace(*input.City)
		if city != "" {
			filters.City = &city
		}
	}
	if input.PropertyType != nil {
		value := string(*input.PropertyType)
		filters.PropertyType = &value
	}
	if input.Status != nil {
		value := string(*input.Status)
		filters.Status = &value
	}

	properties, next, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list properties")
	}

	list := &PropertyList{Properties: make([]PropertyDTO, 0, len(properties))}
	for i := range properties {
		list.Properties = append(list.Properties, *toDTO(&properties[i]))
	}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) Detail(ctx context.Context, propertyID uuid.UUID) (*PropertyDTO, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	property, err := s.repo.FindByID(ctx, propertyID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	return toDTO(property), nil
}

func (s *service) Create(ctx context.Context, input CreatePropertyInput) (*PropertyDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	var created *models.Property
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		property := &models.Property{
			ID:                  uuid.New(),
			Title:               strings.TrimSpace(input.Title),
			Description:         input.Description,
			City:                strings.TrimSpace(input.City),
			Locality:            strings.TrimSpace(input.Locality),
			PropertyType:        input.PropertyType,
			Status:              enums.PropertyStatusDraft,
			TotalUnits:          input.TotalUnits,
			AvailableUnits:      input.TotalUnits,
			PricePerUnit:        input.PricePerUnit,
			ExpectedAnnualYield: input.ExpectedAnnualYield,
			FundingTarget:       input.FundingTarget,
			Amenities:           pq.StringArray(input.Amenities),
		}
		var err error
		created, err = repo.Create(ctx, property)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create property")
		}
		return repo.ReplaceImages(ctx, created.ID, buildImages(created.ID, input.ImageURLs))
	})
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, created.ID)
}

func (s *service) Update(ctx context.Context, propertyID uuid.UUID, input UpdatePropertyInput) (*PropertyDTO, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	if input.PropertyType != nil && !input.PropertyType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid property type")
	}
	if input.PricePerUnit != nil && !input.PricePerUnit.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per unit must be positive")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		property, err := repo.FindByID(ctx, propertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}

		updates := buildUpdates(input)
		if len(updates) > 0 {
			if err := repo.Update(ctx, property.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update property")
			}
		}
		if input.ImageURLs != nil {
			if err := repo.ReplaceImages(ctx, property.ID, buildImages(property.ID, *input.ImageURLs)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace property images")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, propertyID)
}

func (s *service) SetStatus(ctx context.Context, propertyID uuid.UUID, status enums.PropertyStatus) (*PropertyDTO, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		property, err := repo.FindByID(ctx, propertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		if property.Status == status {
			return nil
		}
		if !statusMoveAllowed(property.Status, status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("property cannot move from %s to %s", property.Status, status))
		}
		if status == enums.PropertyStatusActive && property.TotalUnits <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "property needs units before activation")
		}
		if err := repo.Update(ctx, property.ID, map[string]any{"status": status}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update property status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Detail(ctx, propertyID)
}

func (s *service) Delete(ctx context.Context, propertyID uuid.UUID) error {
	if propertyID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		property, err := repo.FindByID(ctx, propertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		if property.Status != enums.PropertyStatusDraft {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only draft properties can be deleted")
		}
		if err := repo.Delete(ctx, property.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete property")
		}
		return nil
	})
}

func statusMoveAllowed(from, to enums.PropertyStatus) bool {
	for _, candidate := range allowedStatusMoves[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func validateCreateInput(input CreatePropertyInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city required")
	}
	if !input.PropertyType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid property type")
	}
	if input.TotalUnits <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total units must be positive")
	}
	if !input.PricePerUnit.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price per unit must be positive")
	}
	if input.ExpectedAnnualYield.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "expected yield cannot be negative")
	}
	return nil
}

func buildUpdates(input UpdatePropertyInput) map[string]any {
	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.City != nil {
		updates["city"] = strings.TrimSpace(*input.City)
	}
	if input.Locality != nil {
		updates["locality"] = strings.TrimSpace(*input.Locality)
	}
	if input.PropertyType != nil {
		updates["property_type"] = *input.PropertyType
	}
	if input.PricePerUnit != nil {
		updates["price_per_unit"] = *input.PricePerUnit
	}
	if input.ExpectedAnnualYield != nil {
		updates["expected_annual_yield"] = *input.ExpectedAnnualYield
	}
	if input.FundingTarget != nil {
		updates["funding_target"] = *input.FundingTarget
	}
	if input.Amenities != nil {
		updates["amenities"] = pq.StringArray(*input.Amenities)
	}
	return updates
}

func buildImages(propertyID uuid.UUID, urls []string) []models.PropertyImage {
	images := make([]models.PropertyImage, 0, len(urls))
	for i, url := range urls {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		images = append(images, models.PropertyImage{
			ID:         uuid.New(),
			PropertyID: propertyID,
			URL:        trimmed,
			Position:   i,
		})
	}
	return images
}
