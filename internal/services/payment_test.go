package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/config"
	"samaj-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSalt = "salt-key"

func xVerify(data string) string {
	sum := sha256.Sum256([]byte(data + testSalt))
	return hex.EncodeToString(sum[:]) + "###1"
}

func newPaymentFixture(t *testing.T, gatewayURL string) (*PaymentService, *fakePayments) {
	t.Helper()
	users := newFakeUsers(&models.User{ID: "u1", Mobile: "+91 98765 43210"})
	repo := &fakePayments{}
	svc := NewPaymentService(repo, &fakeAccounts{users: users}, config.PhonePeConfig{
		Host:        gatewayURL,
		MerchantID:  "MERCHANT",
		SaltKey:     testSalt,
		SaltIndex:   1,
		RedirectURL: "https://app.example/done",
		CallbackURL: "https://api.example/api/v1/payments/webhook",
	})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestPremiumFor(t *testing.T) {
	paid := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		plan       string
		now        time.Time
		wantActive bool
		wantExpiry time.Time
	}{
		{"monthly active", models.PlanMonthly, paid.AddDate(0, 0, 29), true, paid.AddDate(0, 0, 30)},
		{"monthly lapsed", models.PlanMonthly, paid.AddDate(0, 0, 30), false, paid.AddDate(0, 0, 30)},
		{"gujarati monthly", models.PlanMonthlyGujarati, paid.AddDate(0, 0, 10), true, paid.AddDate(0, 0, 30)},
		{"yearly active", models.PlanYearly, paid.AddDate(0, 0, 364), true, paid.AddDate(0, 0, 365)},
		{"gujarati yearly lapsed", models.PlanYearlyGujarati, paid.AddDate(0, 0, 366), false, paid.AddDate(0, 0, 365)},
		{"unknown plan", "Lifetime", paid, false, paid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := PremiumFor(&models.Payment{Plan: tt.plan, CreatedAt: paid}, tt.now)
			assert.Equal(t, tt.wantActive, status.Active)
			assert.Equal(t, !tt.wantActive, status.ShowAds)
			require.NotNil(t, status.ExpiresAt)
			assert.True(t, tt.wantExpiry.Equal(*status.ExpiresAt))
		})
	}

	none := PremiumFor(nil, paid)
	assert.False(t, none.Active)
	assert.True(t, none.ShowAds)
	assert.Nil(t, none.ExpiresAt)
}

func TestPremiumFor_CalendarDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("time zone data unavailable")
	}
	paid := time.Date(2026, 3, 1, 0, 30, 0, 0, loc)

	status := PremiumFor(&models.Payment{Plan: models.PlanMonthly, CreatedAt: paid}, paid)
	require.NotNil(t, status.ExpiresAt)
	want := time.Date(2026, 3, 31, 0, 30, 0, 0, loc)
	assert.True(t, want.Equal(*status.ExpiresAt), "expires %s, want %s", status.ExpiresAt.In(loc), want)
}

func TestPaymentService_Initiate(t *testing.T) {
	var got payPayload
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, payEndpoint, r.URL.Path)

		var body struct {
			Request string `json:"request"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, xVerify(body.Request+payEndpoint), r.Header.Get("X-VERIFY"))

		raw, err := base64.StdEncoding.DecodeString(body.Request)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"code":"PAYMENT_INITIATED","data":{"instrumentResponse":{"redirectInfo":{"url":"https://pay.example/page"}}}}`))
	}))
	defer gateway.Close()

	svc, repo := newPaymentFixture(t, gateway.URL)

	resp, err := svc.Initiate(context.Background(), "u1", InitiateRequest{Amount: 101, Plan: models.PlanMonthly})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/page", resp.RedirectURL)
	assert.Regexp(t, `^TXN_\d+_\d{1,3}$`, resp.TransactionID)

	assert.Equal(t, int64(10100), got.Amount)
	assert.Equal(t, "USER_9876543210", got.MerchantUserID)
	assert.Equal(t, "9876543210", got.MobileNumber)
	assert.Equal(t, "PAY_PAGE", got.PaymentInstrument.Type)
	assert.Equal(t, resp.TransactionID, got.MerchantTransactionID)

	require.Len(t, repo.payments, 1)
	assert.Equal(t, models.PaymentStatusPending, repo.payments[0].Status)
	assert.Equal(t, "9876543210", repo.payments[0].UserPhone)
}

func TestPaymentService_InitiateGatewayRejects(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"code":"BAD_REQUEST","message":"Invalid merchant"}`))
	}))
	defer gateway.Close()

	svc, repo := newPaymentFixture(t, gateway.URL)

	_, err := svc.Initiate(context.Background(), "u1", InitiateRequest{Amount: 100, Plan: models.PlanYearly})
	require.ErrorIs(t, err, apperrors.ErrPaymentGatewayFailure)
	assert.Equal(t, "Invalid merchant", apperrors.MessageOf(err))
	assert.Empty(t, repo.payments)

	_, err = svc.Initiate(context.Background(), "u1", InitiateRequest{Amount: 0, Plan: models.PlanYearly})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestPaymentService_HandleCallback(t *testing.T) {
	svc, repo := newPaymentFixture(t, "http://unused")
	repo.payments = append(repo.payments, &models.Payment{
		ID:            "p1",
		UserID:        "u1",
		UserPhone:     "9876543210",
		Plan:          models.PlanMonthly,
		TransactionID: "TXN_1_1",
		Status:        models.PaymentStatusPending,
		CreatedAt:     time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	})

	encode := func(success bool, code string) string {
		raw, _ := json.Marshal(map[string]interface{}{
			"success": success,
			"code":    code,
			"data":    map[string]string{"merchantTransactionId": "TXN_1_1", "state": "COMPLETED"},
		})
		return base64.StdEncoding.EncodeToString(raw)
	}

	response := encode(true, codePaymentOK)
	_, err := svc.HandleCallback(context.Background(), response, "deadbeef###1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
	assert.Equal(t, models.PaymentStatusPending, repo.payments[0].Status)

	p, err := svc.HandleCallback(context.Background(), response, xVerify(response))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, p.Status)

	premium, err := svc.Premium(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, premium.Active)
	assert.False(t, premium.ShowAds)

	failed := encode(false, "PAYMENT_ERROR")
	p, err = svc.HandleCallback(context.Background(), failed, xVerify(failed))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, p.Status)

	premium, err = svc.Premium(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, premium.ShowAds)
}
