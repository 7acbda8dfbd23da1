package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/api/responses"
	"github.com/propshare/propshare-backend/api/validators"
	"github.com/propshare/propshare-backend/internal/properties"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/logger"
)

type createPropertyBody struct {
	Title               string          `json:"title" validate:"required,max=200"`
	Description         string          `json:"description" validate:"omitempty,max=5000"`
	City                string          `json:"city" validate:"required,max=100"`
	Locality            string          `json:"locality" validate:"omitempty,max=200"`
	PropertyType        string          `json:"property_type" validate:"required,oneof=residential commercial warehouse land"`
	TotalUnits          int             `json:"total_units" validate:"required,gt=0"`
	PricePerUnit        decimal.Decimal `json:"price_per_unit"`
	ExpectedAnnualYield decimal.Decimal `json:"expected_annual_yield"`
	FundingTarget       decimal.Decimal `json:"funding_target"`
	Amenities           []string        `json:"amenities" validate:"omitempty,dive,max=100"`
	ImageURLs           []string        `json:"image_urls" validate:"omitempty,dive,url"`
}

type updatePropertyBody struct {
	Title               *string          `json:"title" validate:"omitempty,max=200"`
	Description         *string          `json:"description" validate:"omitempty,max=5000"`
	City                *string          `json:"city" validate:"omitempty,max=100"`
	Locality            *string          `json:"locality" validate:"omitempty,max=200"`
	PropertyType        *string          `json:"property_type" validate:"omitempty,oneof=residential commercial warehouse land"`
	PricePerUnit        *decimal.Decimal `json:"price_per_unit"`
	ExpectedAnnualYield *decimal.Decimal `json:"expected_annual_yield"`
	FundingTarget       *decimal.Decimal `json:"funding_target"`
	Amenities           *[]string        `json:"amenities" validate:"omitempty,dive,max=100"`
	ImageURLs           *[]string        `json:"image_urls" validate:"omitempty,dive,url"`
}

type setPropertyStatusBody struct {
	Status string `json:"status" validate:"required"`
}

// AdminListProperties lists properties in any status with filters.
func AdminListProperties(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "properties service unavailable"))
			return
		}

		input, err := parsePropertyListQuery(r, true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminList(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminCreateProperty creates a draft listing.
func AdminCreateProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "properties service unavailable"))
			return
		}

		var body createPropertyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		propertyType, err := enums.ParsePropertyType(body.PropertyType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property type"))
			return
		}

		result, err := svc.Create(r.Context(), properties.CreatePropertyInput{
			Title:               body.Title,
			Description:         body.Description,
			City:                body.City,
			Locality:            body.Locality,
			PropertyType:        propertyType,
			TotalUnits:          body.TotalUnits,
			PricePerUnit:        body.PricePerUnit,
			ExpectedAnnualYield: body.ExpectedAnnualYield,
			FundingTarget:       body.FundingTarget,
			Amenities:           body.Amenities,
			ImageURLs:           body.ImageURLs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "property created", result)
	}
}

// AdminUpdateProperty applies partial updates to a listing.
func AdminUpdateProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "properties service unavailable"))
			return
		}

		propertyID, err := parseUUIDParam(r, "propertyID", "invalid property id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePropertyBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := properties.UpdatePropertyInput{
			Title:               body.Title,
			Description:         body.Description,
			City:                body.City,
			Locality:            body.Locality,
			PricePerUnit:        body.PricePerUnit,
			ExpectedAnnualYield: body.ExpectedAnnualYield,
			FundingTarget:       body.FundingTarget,
			Amenities:           body.Amenities,
			ImageURLs:           body.ImageURLs,
		}

		if body.PropertyType != nil {
			propertyType, err := enums.ParsePropertyType(*body.PropertyType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property type"))
				return
			}
			input.PropertyType = &propertyType
		}

		result, err := svc.Update(r.Context(), propertyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminSetPropertyStatus moves a listing between lifecycle states.
func AdminSetPropertyStatus(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "properties service unavailable"))
			return
		}

		propertyID, err := parseUUIDParam(r, "propertyID", "invalid property id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setPropertyStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePropertyStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property status"))
			return
		}

		result, err := svc.SetStatus(r.Context(), propertyID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminDeleteProperty removes a listing that has no investments.
func AdminDeleteProperty(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "properties service unavailable"))
			return
		}

		propertyID, err := parseUUIDParam(r, "propertyID", "invalid property id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), propertyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "property deleted", nil)
	}
}
