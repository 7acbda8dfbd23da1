package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/propshare/propshare-backend/api/responses"
	"github.com/propshare/propshare-backend/internal/users"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/logger"
)

// AdminListUsers lists platform users with role and status filters.
func AdminListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		filters := users.ListFilters{}
		query := r.URL.Query()

		if raw := strings.TrimSpace(query.Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter"))
				return
			}
			filters.Role = &role
		}

		if raw := strings.TrimSpace(query.Get("kyc_status")); raw != "" {
			status, err := enums.ParseKYCStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kyc_status filter"))
				return
			}
			filters.KYCStatus = &status
		}

		if raw := strings.TrimSpace(query.Get("is_active")); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid is_active filter"))
				return
			}
			filters.IsActive = &active
		}

		params, err := parsePaginationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminList(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminUserDetail returns one user's profile.
func AdminUserDetail(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := parseUUIDParam(r, "userID", "invalid user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Detail(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminSetUserActive toggles account access. The active flag is fixed at
// mount time so activate and deactivate get distinct routes.
func AdminSetUserActive(svc users.Service, active bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := parseUUIDParam(r, "userID", "invalid user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SetActive(r.Context(), userID, active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := "user deactivated"
		if active {
			message = "user activated"
		}
		responses.WriteSuccessMessage(w, message, result)
	}
}
