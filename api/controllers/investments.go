package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/api/middleware"
	"github.com/propshare/propshare-backend/api/responses"
	"github.com/propshare/propshare-backend/api/validators"
	"github.com/propshare/propshare-backend/internal/investments"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/logger"
)

type createInvestmentBody struct {
	PropertyID   uuid.UUID `json:"property_id" validate:"required"`
	UnitsCount   int       `json:"units_count" validate:"required,gt=0"`
	ReferralCode *string   `json:"referral_code" validate:"omitempty,max=32"`
}

// CreateInvestment opens a pending investment and reserves units.
func CreateInvestment(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "investments service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createInvestmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, investments.CreateInput{
			PropertyID:   body.PropertyID,
			UnitsCount:   body.UnitsCount,
			ReferralCode: body.ReferralCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "investment created", result)
	}
}

// MyInvestments lists the caller's investments newest-first.
func MyInvestments(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "investments service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePaginationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.MyInvestments(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// InvestmentDetail returns one investment with its audit trail. Owners see
// their own rows; admins see any row.
func InvestmentDetail(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "investments service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		investmentID, err := parseUUIDParam(r, "investmentID", "invalid investment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := enums.UserRole(middleware.RoleFromContext(r.Context()))

		result, err := svc.Detail(r.Context(), userID, role, investmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
