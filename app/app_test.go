package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/affiliates/app"
	infraeventbus "github.com/amirasaad/affiliates/infra/eventbus"
	"github.com/amirasaad/affiliates/internal/fixtures"
	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*fiber.App, *fixtures.Store) {
	t.Helper()
	store := fixtures.NewStore()
	cfg := &config.App{
		Env:        "test",
		Commission: &config.Commission{Rates: "0.10,0.05,0.02"},
		RateLimit:  &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
	}
	deps := config.Deps{
		Uow:      fixtures.NewUoW(store),
		EventBus: infraeventbus.NewWithMemory(slog.Default()),
		Clock:    fixtures.NewFixedClock(now),
		Logger:   slog.Default(),
		Config:   cfg,
	}
	return app.New(deps), store
}

func doJSON(t *testing.T, a *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope))
	}
	return resp, envelope
}

func data(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	d, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "missing data in %v", envelope)
	return d
}

func TestPaymentLifecycleOverHTTP(t *testing.T) {
	a, _ := newTestApp(t)

	resp, body := doJSON(t, a, "POST", "/companies", map[string]any{"name": "Acme"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	companyID := data(t, body)["id"].(string)

	resp, body = doJSON(t, a, "POST", "/payments", map[string]any{
		"company_id": companyID,
		"amount":     "120.00",
		"fee":        "2.50",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	payment := data(t, body)
	paymentID := payment["id"].(string)
	assert.Equal(t, "pending", payment["status"])
	assert.Equal(t, "117.50", payment["net_amount"])

	resp, body = doJSON(t, a, "POST", "/payments/"+paymentID+"/complete", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", data(t, body)["status"])

	resp, body = doJSON(t, a, "GET", "/companies/"+companyID+"/revenue", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "117.50", data(t, body)["total_revenue"])

	resp, body = doJSON(t, a, "POST", "/payments/"+paymentID+"/refund", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "refunded", data(t, body)["status"])

	resp, body = doJSON(t, a, "GET", "/companies/"+companyID+"/revenue", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.00", data(t, body)["total_revenue"])
}

func TestReferralFlowOverHTTP(t *testing.T) {
	a, _ := newTestApp(t)

	ids := make([]string, 3)
	codes := make([]string, 3)
	for i := range ids {
		ids[i] = fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i+1)
		resp, body := doJSON(t, a, "POST", "/profiles", map[string]any{"user_id": ids[i]})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		codes[i] = data(t, body)["referral_code"].(string)
	}

	// chain: user1 referred by user2, user2 referred by user3
	resp, _ := doJSON(t, a, "POST", "/profiles/link", map[string]any{
		"user_id": ids[0], "referral_code": codes[1],
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, a, "POST", "/profiles/link", map[string]any{
		"user_id": ids[1], "referral_code": codes[2],
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, a, "GET", "/users/"+ids[0]+"/upline", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	upline, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, upline, 2)

	resp, body = doJSON(t, a, "POST", "/commissions/distribute", map[string]any{
		"source_user_id": ids[0],
		"amount":         "100.00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, created, 2)
	first := created[0].(map[string]any)
	assert.Equal(t, "10.00", first["amount"])

	resp, body = doJSON(t, a, "GET", "/users/"+ids[1]+"/commissions", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
}

func TestProblemDetailsOnUnknownPayment(t *testing.T) {
	a, _ := newTestApp(t)

	resp, body := doJSON(t, a, "GET", "/payments/00000000-0000-0000-0000-000000000009", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, fiber.StatusNotFound, body["status"])
	assert.Equal(t, "about:blank", body["type"])
}

func TestRefundPendingPaymentConflicts(t *testing.T) {
	a, _ := newTestApp(t)

	resp, body := doJSON(t, a, "POST", "/companies", map[string]any{"name": "Acme"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	companyID := data(t, body)["id"].(string)

	resp, body = doJSON(t, a, "POST", "/payments", map[string]any{
		"company_id": companyID,
		"amount":     "50.00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	paymentID := data(t, body)["id"].(string)

	resp, _ = doJSON(t, a, "POST", "/payments/"+paymentID+"/refund", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
