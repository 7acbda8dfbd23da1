package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/api/middleware"
	"github.com/propshare/propshare-backend/api/responses"
	"github.com/propshare/propshare-backend/api/validators"
	"github.com/propshare/propshare-backend/internal/investments"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/logger"
)

type investmentActionBody struct {
	Action string  `json:"action" validate:"required,oneof=approve_payment reject_payment approve reject complete cancel"`
	Reason *string `json:"reason" validate:"omitempty,min=3,max=500"`
}

// AdminListInvestments lists investments across all users with filters.
func AdminListInvestments(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "investments service unavailable"))
			return
		}

		filters, err := parseInvestmentFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePaginationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminList(r.Context(), *filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminInvestmentDetail returns any investment with its audit trail.
func AdminInvestmentDetail(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "investments service unavailable"))
			return
		}

		actorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		investmentID, err := parseUUIDParam(r, "investmentID", "invalid investment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Detail(r.Context(), actorID, enums.UserRoleAdmin, investmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminInvestmentAction applies a workflow action to an investment.
func AdminInvestmentAction(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "investments service unavailable"))
			return
		}

		actorID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		investmentID, err := parseUUIDParam(r, "investmentID", "invalid investment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body investmentActionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseInvestmentAction(body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid actor role"))
			return
		}

		result, err := svc.PerformAction(r.Context(), investments.ActionInput{
			InvestmentID: investmentID,
			Action:       action,
			Reason:       body.Reason,
			ActorID:      actorID,
			ActorRole:    role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseInvestmentFilters(r *http.Request) (*investments.ListFilters, error) {
	filters := investments.ListFilters{}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status, err := enums.ParseInvestmentStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}

	if raw := strings.TrimSpace(query.Get("property_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property_id filter")
		}
		filters.PropertyID = &id
	}

	if raw := strings.TrimSpace(query.Get("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id filter")
		}
		filters.UserID = &id
	}

	if raw := strings.TrimSpace(query.Get("date_from")); raw != "" {
		from, err := parseDateFilter(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_from filter")
		}
		filters.DateFrom = &from
	}

	if raw := strings.TrimSpace(query.Get("date_to")); raw != "" {
		to, err := parseDateFilter(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_to filter")
		}
		filters.DateTo = &to
	}

	return &filters, nil
}

func parseDateFilter(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
	}
	return t, err
}
