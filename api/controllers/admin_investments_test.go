package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/api/middleware"
	"github.com/propshare/propshare-backend/internal/investments"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type testInvestmentsService struct {
	createFn        func(ctx context.Context, userID uuid.UUID, input investments.CreateInput) (*investments.InvestmentDTO, error)
	myInvestmentsFn func(ctx context.Context, userID uuid.UUID, params pagination.Params) (*investments.InvestmentList, error)
	detailFn        func(ctx context.Context, viewerID uuid.UUID, viewerRole enums.UserRole, investmentID uuid.UUID) (*investments.InvestmentDTO, error)
	adminListFn     func(ctx context.Context, filters investments.ListFilters, params pagination.Params) (*investments.InvestmentList, error)
	performActionFn func(ctx context.Context, input investments.ActionInput) (*investments.InvestmentDTO, error)
}

func (s *testInvestmentsService) Create(ctx context.Context, userID uuid.UUID, input investments.CreateInput) (*investments.InvestmentDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, input)
	}
	return nil, nil
}

func (s *testInvestmentsService) MyInvestments(ctx context.Context, userID uuid.UUID, params pagination.Params) (*investments.InvestmentList, error) {
	if s.myInvestmentsFn != nil {
		return s.myInvestmentsFn(ctx, userID, params)
	}
	return nil, nil
}

func (s *testInvestmentsService) Detail(ctx context.Context, viewerID uuid.UUID, viewerRole enums.UserRole, investmentID uuid.UUID) (*investments.InvestmentDTO, error) {
	if s.detailFn != nil {
		return s.detailFn(ctx, viewerID, viewerRole, investmentID)
	}
	return nil, nil
}

func (s *testInvestmentsService) AdminList(ctx context.Context, filters investments.ListFilters, params pagination.Params) (*investments.InvestmentList, error) {
	if s.adminListFn != nil {
		return s.adminListFn(ctx, filters, params)
	}
	return nil, nil
}

func (s *testInvestmentsService) PerformAction(ctx context.Context, input investments.ActionInput) (*investments.InvestmentDTO, error) {
	if s.performActionFn != nil {
		return s.performActionFn(ctx, input)
	}
	return nil, nil
}

func adminRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleAdmin))
	return req.WithContext(ctx)
}

func TestAdminInvestmentActionDispatch(t *testing.T) {
	investmentID := uuid.New()
	actorID := uuid.New()
	var got investments.ActionInput
	svc := &testInvestmentsService{
		performActionFn: func(ctx context.Context, input investments.ActionInput) (*investments.InvestmentDTO, error) {
			got = input
			return &investments.InvestmentDTO{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/investments/"+investmentID.String()+"/action",
		strings.NewReader(`{"action":"reject_payment","reason":"proof did not match"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), actorID.String())
	ctx = middleware.WithRole(ctx, string(enums.UserRoleAdmin))
	req = req.WithContext(ctx)
	req = addRouteParam(req, "investmentID", investmentID.String())

	resp := httptest.NewRecorder()
	AdminInvestmentAction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if got.InvestmentID != investmentID {
		t.Fatalf("unexpected investment %s", got.InvestmentID)
	}
	if got.Action != enums.InvestmentActionRejectPayment {
		t.Fatalf("unexpected action %s", got.Action)
	}
	if got.ActorID != actorID || got.ActorRole != enums.UserRoleAdmin {
		t.Fatalf("unexpected actor %+v", got)
	}
	if got.Reason == nil || *got.Reason != "proof did not match" {
		t.Fatalf("unexpected reason %+v", got.Reason)
	}
}

func TestAdminInvestmentActionRejectsUnknownAction(t *testing.T) {
	req := adminRequest(http.MethodPost, "/api/admin/investments/"+uuid.NewString()+"/action", `{"action":"escalate"}`)
	req = addRouteParam(req, "investmentID", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminInvestmentAction(&testInvestmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminListInvestmentsParsesFilters(t *testing.T) {
	propertyID := uuid.New()
	var got investments.ListFilters
	svc := &testInvestmentsService{
		adminListFn: func(ctx context.Context, filters investments.ListFilters, params pagination.Params) (*investments.InvestmentList, error) {
			got = filters
			return &investments.InvestmentList{}, nil
		},
	}

	target := "/api/admin/investments?status=pending_payment&property_id=" + propertyID.String() + "&date_from=2026-01-01"
	req := adminRequest(http.MethodGet, target, "")
	resp := httptest.NewRecorder()
	AdminListInvestments(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
	if got.Status == nil || *got.Status != enums.InvestmentStatusPendingPayment {
		t.Fatalf("unexpected status filter %+v", got.Status)
	}
	if got.PropertyID == nil || *got.PropertyID != propertyID {
		t.Fatalf("unexpected property filter %+v", got.PropertyID)
	}
	if got.DateFrom == nil || got.DateFrom.Year() != 2026 {
		t.Fatalf("unexpected date filter %+v", got.DateFrom)
	}
}

func TestAdminListInvestmentsRejectsBadStatus(t *testing.T) {
	req := adminRequest(http.MethodGet, "/api/admin/investments?status=unknown", "")
	resp := httptest.NewRecorder()
	AdminListInvestments(&testInvestmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
