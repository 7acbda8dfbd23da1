package controllers

import (
	"net/http"
	"strings"

	"github.com/propshare/propshare-backend/api/responses"
	"github.com/propshare/propshare-backend/internal/properties"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/logger"
)

// BrowseProperties lists open listings for investors.
func BrowseProperties(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "properties service unavailable"))
			return
		}

		input, err := parsePropertyListQuery(r, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Browse(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PropertyDetail returns a single listing.
func PropertyDetail(svc properties.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.Detail(r.Context(), propertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parsePropertyListQuery(r *http.Request, allowStatus bool) (*properties.ListPropertiesInput, error) {
	input := properties.ListPropertiesInput{}

	if city := strings.TrimSpace(r.URL.Query().Get("city")); city != "" {
		input.City = &city
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		propertyType, err := enums.ParsePropertyType(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property type")
		}
		input.PropertyType = &propertyType
	}

	if allowStatus {
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePropertyStatus(raw)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property status")
			}
			input.Status = &status
		}
	}

	params, err := parsePaginationQuery(r)
	if err != nil {
		return nil, err
	}
	input.Params = params

	return &input, nil
}
