package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	"samaj-backend/internal/config"
	"samaj-backend/internal/metrics"
	"samaj-backend/internal/models"
	"samaj-backend/internal/phone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	payEndpoint     = "/pg/v1/pay"
	gatewayTimeout  = 15 * time.Second
	monthlyPlanDays = 30
	yearlyPlanDays  = 365
	codePaymentOK   = "PAYMENT_SUCCESS"
)

// PaymentRepository is the storage PaymentService needs
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByTransactionID(ctx context.Context, txnID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, txnID, status string) error
	LatestSuccessful(ctx context.Context, userPhone string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Payment, error)
}

// PaymentService integrates the PhonePe pay page and derives premium status
type PaymentService struct {
	repo     PaymentRepository
	accounts Accounts
	cfg      config.PhonePeConfig
	client   *http.Client
	now      func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo PaymentRepository, accounts Accounts, cfg config.PhonePeConfig) *PaymentService {
	return &PaymentService{
		repo:     repo,
		accounts: accounts,
		cfg:      cfg,
		client:   &http.Client{Timeout: gatewayTimeout},
		now:      time.Now,
	}
}

// InitiateRequest is the client's payment request; Amount is in rupees
type InitiateRequest struct {
	Amount int64  `json:"amount"`
	Plan   string `json:"plan"`
}

// InitiateResponse carries the pay page to open
type InitiateResponse struct {
	RedirectURL   string `json:"url"`
	TransactionID string `json:"transaction_id"`
}

type payPayload struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

type payResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// Initiate registers a payment with the gateway and records it as pending
func (s *PaymentService) Initiate(ctx context.Context, userID string, in InitiateRequest) (*InitiateResponse, error) {
	if in.Amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	plan := strings.TrimSpace(in.Plan)
	if plan == "" {
		return nil, apperrors.InvalidArg("plan is required")
	}

	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	mobileKey := phone.Key(user.Mobile)

	txnID, err := s.newTransactionID()
	if err != nil {
		return nil, err
	}

	payload := payPayload{
		MerchantID:            s.cfg.MerchantID,
		MerchantTransactionID: txnID,
		MerchantUserID:        "USER_" + mobileKey,
		Amount:                in.Amount * 100,
		RedirectURL:           s.cfg.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           s.cfg.CallbackURL,
		MobileNumber:          mobileKey,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	redirectURL, err := s.callPay(ctx, encoded)
	if err != nil {
		metrics.PaymentsInitiated.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("user_id", userID).Str("transaction_id", txnID).Msg("Payment initiation failed")
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.New().String(),
		UserID:        userID,
		UserPhone:     mobileKey,
		Plan:          plan,
		Amount:        in.Amount,
		TransactionID: txnID,
		Status:        models.PaymentStatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsInitiated.WithLabelValues("ok").Inc()
	log.Info().Str("user_id", userID).Str("transaction_id", txnID).Int64("amount", in.Amount).Msg("Payment initiated")

	return &InitiateResponse{RedirectURL: redirectURL, TransactionID: txnID}, nil
}

func (s *PaymentService) callPay(ctx context.Context, encoded string) (string, error) {
	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.cfg.Host, "/")+payEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build pay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", s.sign(encoded+payEndpoint))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	var result payResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}

	url := result.Data.InstrumentResponse.RedirectInfo.URL
	if !result.Success || url == "" {
		msg := result.Message
		if msg == "" {
			msg = apperrors.MessageOf(apperrors.ErrPaymentGatewayFailure)
		}
		return "", apperrors.Wrap(apperrors.CodeFailedPrecondition, msg, apperrors.ErrPaymentGatewayFailure)
	}
	return url, nil
}

// sign returns hex(sha256(data + salt)) + "###" + salt index
func (s *PaymentService) sign(data string) string {
	sum := sha256.Sum256([]byte(data + s.cfg.SaltKey))
	return hex.EncodeToString(sum[:]) + "###" + strconv.Itoa(s.cfg.SaltIndex)
}

func (s *PaymentService) newTransactionID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction id: %w", err)
	}
	return fmt.Sprintf("TXN_%d_%d", s.now().UnixMilli(), n.Int64()), nil
}

type callbackResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		State                 string `json:"state"`
	} `json:"data"`
}

// HandleCallback verifies a gateway callback and settles the payment it names
func (s *PaymentService) HandleCallback(ctx context.Context, response, xVerify string) (*models.Payment, error) {
	expected := s.sign(response)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(xVerify)) != 1 {
		return nil, apperrors.ErrInvalidSignature
	}

	raw, err := base64.StdEncoding.DecodeString(response)
	if err != nil {
		return nil, apperrors.InvalidArg("callback response is not base64")
	}
	var cb callbackResponse
	if err := json.Unmarshal(raw, &cb); err != nil {
		return nil, apperrors.InvalidArg("callback response is not valid JSON")
	}

	txnID := cb.Data.MerchantTransactionID
	payment, err := s.repo.GetByTransactionID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	status := models.PaymentStatusFailed
	if cb.Success && cb.Code == codePaymentOK {
		status = models.PaymentStatusSuccess
	}
	if err := s.repo.UpdateStatus(ctx, txnID, status); err != nil {
		return nil, err
	}
	payment.Status = status

	log.Info().Str("transaction_id", txnID).Str("status", status).Str("code", cb.Code).Msg("Payment settled")
	return payment, nil
}

// History returns the user's payments
func (s *PaymentService) History(ctx context.Context, userID string) ([]*models.Payment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// PremiumStatus describes whether ads should be suppressed for a user
type PremiumStatus struct {
	Active    bool       `json:"active"`
	Plan      string     `json:"plan,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ShowAds   bool       `json:"show_ads"`
}

// Premium derives the user's premium status from their latest successful payment
func (s *PaymentService) Premium(ctx context.Context, userID string) (*PremiumStatus, error) {
	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payment, err := s.repo.LatestSuccessful(ctx, phone.Key(user.Mobile))
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			return PremiumFor(nil, s.now()), nil
		}
		return nil, err
	}
	return PremiumFor(payment, s.now()), nil
}

// PremiumFor computes the premium status a payment grants at now. Monthly plans
// last 30 calendar days and yearly plans 365 calendar days from the payment;
// any other plan expires immediately.
func PremiumFor(payment *models.Payment, now time.Time) *PremiumStatus {
	if payment == nil {
		return &PremiumStatus{ShowAds: true}
	}

	expiry := payment.CreatedAt.AddDate(0, 0, planDays(payment.Plan))
	active := now.Before(expiry)
	return &PremiumStatus{
		Active:    active,
		Plan:      payment.Plan,
		ExpiresAt: &expiry,
		ShowAds:   !active,
	}
}

func planDays(plan string) int {
	switch plan {
	case models.PlanMonthly, models.PlanMonthlyGujarati:
		return monthlyPlanDays
	case models.PlanYearly, models.PlanYearlyGujarati:
		return yearlyPlanDays
	default:
		return 0
	}
}
