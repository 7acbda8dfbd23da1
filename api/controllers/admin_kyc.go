package controllers

import (
	"net/http"

	"github.com/propshare/propshare-backend/api/responses"
	"github.com/propshare/propshare-backend/api/validators"
	"github.com/propshare/propshare-backend/internal/kyc"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/logger"
)

type kycOverrideBody struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
}

// AdminKYCStatus returns a user's per-step verification progress.
func AdminKYCStatus(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kyc service unavailable"))
			return
		}

		userID, err := parseUUIDParam(r, "userID", "invalid user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Status(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminKYCOverride forces a user's verification state to verified or rejected.
func AdminKYCOverride(svc kyc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kyc service unavailable"))
			return
		}

		userID, err := parseUUIDParam(r, "userID", "invalid user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body kycOverrideBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseKYCStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kyc status"))
			return
		}

		result, err := svc.AdminOverride(r.Context(), userID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
