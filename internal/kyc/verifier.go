package kyc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/propshare/propshare-backend/pkg/config"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("kyc provider base url is required")

// VerificationRequest is one document verification call to the provider.
type VerificationRequest struct {
	Step           enums.KYCStep `json:"step"`
	DocumentNumber string        `json:"document_number"`
	HolderName     string        `json:"holder_name,omitempty"`
}

// VerificationResult is the provider's decision for a single step.
type VerificationResult struct {
	Verified      bool
	ProviderRef   string
	FailureReason string
}

// Verifier performs document verification against an external provider.
type Verifier interface {
	VerifyStep(ctx context.Context, req VerificationRequest) (*VerificationResult, error)
}

// HTTPVerifier calls the configured KYC provider over HTTP.
type HTTPVerifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional verifier behavior.
type Option func(*HTTPVerifier)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *HTTPVerifier) {
		if client != nil {
			v.httpClient = client
		}
	}
}

// NewHTTPVerifier builds the provider client from configuration.
func NewHTTPVerifier(cfg config.KYCConfig, opts ...Option) (*HTTPVerifier, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	verifier := &HTTPVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(verifier)
		}
	}
	if verifier.httpClient == nil {
		verifier.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return verifier, nil
}

// VerifyStep submits the document to the provider and maps its decision.
func (v *HTTPVerifier) VerifyStep(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	if v == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "kyc verifier not configured")
	}
	if !req.Step.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown verification step")
	}
	if strings.TrimSpace(req.DocumentNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document number is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal verification request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/verifications", bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build verification request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", v.apiKey)
	}

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute verification request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "verification request failed")
	}

	var apiResp struct {
		Verified      bool   `json:"verified"`
		Reference     string `json:"reference"`
		FailureReason string `json:"failure_reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode verification response")
	}

	return &VerificationResult{
		Verified:      apiResp.Verified,
		ProviderRef:   apiResp.Reference,
		FailureReason: apiResp.FailureReason,
	}, nil
}
