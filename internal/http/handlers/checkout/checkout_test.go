package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SalekhM8/BrainBooster-sub000/internal/config"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
	"github.com/SalekhM8/BrainBooster-sub000/internal/paymentprovider"
)

type PlanRepoMock struct {
	mock.Mock
}

func (m *PlanRepoMock) FindPlanByID(ctx context.Context, id int) (*models.PricingPlan, error) {
	args := m.Called(ctx, id)
	if plan := args.Get(0); plan != nil {
		return plan.(*models.PricingPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateCheckoutSession(ctx context.Context, req paymentprovider.CreateCheckoutSessionRequest) (*paymentprovider.CreateCheckoutSessionResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*paymentprovider.CreateCheckoutSessionResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig() config.PaymentProvider {
	return config.PaymentProvider{
		SuccessURL: "https://brainbooster.example/success",
		CancelURL:  "https://brainbooster.example/cancel",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutSuccess(t *testing.T) {
	plans := new(PlanRepoMock)
	provider := new(ProviderMock)

	plans.On("FindPlanByID", mock.Anything, 2).Return(&models.PricingPlan{
		ID:              2,
		Tier:            models.TierPremium,
		ProviderPriceID: "price_premium",
		IsActive:        true,
	}, nil)
	provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreateCheckoutSessionRequest) bool {
		return req.PriceID == "price_premium" &&
			req.CustomerEmail == "alice@example.com" &&
			req.Metadata["planTier"] == "PREMIUM" &&
			req.Metadata["yearGroup"] == "GCSE" &&
			req.Metadata["subjects"] == `["MATHS","SCIENCE"]` &&
			req.SuccessURL == "https://brainbooster.example/success"
	})).Return(&paymentprovider.CreateCheckoutSessionResponse{
		ID:  "cs_123",
		URL: "https://pay.example/cs_123",
	}, nil)

	h := New(discardLogger(), plans, provider, testConfig())
	rec := doRequest(t, h, Request{
		PlanID:    2,
		Email:     "alice@example.com",
		FirstName: "Alice",
		YearGroup: "GCSE",
		Subjects:  []string{"MATHS", "SCIENCE"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://pay.example/cs_123")
	plans.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestCheckoutUnknownPlan(t *testing.T) {
	plans := new(PlanRepoMock)
	provider := new(ProviderMock)
	plans.On("FindPlanByID", mock.Anything, 99).Return(nil, errors.New("plan 99 not found"))

	h := New(discardLogger(), plans, provider, testConfig())
	rec := doRequest(t, h, Request{PlanID: 99, Email: "alice@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCheckoutInactivePlan(t *testing.T) {
	plans := new(PlanRepoMock)
	provider := new(ProviderMock)
	plans.On("FindPlanByID", mock.Anything, 3).Return(&models.PricingPlan{
		ID:       3,
		Tier:     models.TierBasic,
		IsActive: false,
	}, nil)

	h := New(discardLogger(), plans, provider, testConfig())
	rec := doRequest(t, h, Request{PlanID: 3, Email: "alice@example.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCheckoutValidation(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{name: "missing email", req: Request{PlanID: 1}},
		{name: "bad email", req: Request{PlanID: 1, Email: "not-an-email"}},
		{name: "bad year group", req: Request{PlanID: 1, Email: "a@b.com", YearGroup: "YEAR_9"}},
		{name: "bad subject", req: Request{PlanID: 1, Email: "a@b.com", Subjects: []string{"LATIN"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plans := new(PlanRepoMock)
			provider := new(ProviderMock)
			h := New(discardLogger(), plans, provider, testConfig())

			rec := doRequest(t, h, tc.req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			plans.AssertNotCalled(t, "FindPlanByID", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutProviderDown(t *testing.T) {
	plans := new(PlanRepoMock)
	provider := new(ProviderMock)
	plans.On("FindPlanByID", mock.Anything, 1).Return(&models.PricingPlan{
		ID:              1,
		Tier:            models.TierBasic,
		ProviderPriceID: "price_basic",
		IsActive:        true,
	}, nil)
	provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	h := New(discardLogger(), plans, provider, testConfig())
	rec := doRequest(t, h, Request{PlanID: 1, Email: "alice@example.com"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
