package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/metinatakli/payment-orchestrator/api"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/mocks"
	"github.com/metinatakli/payment-orchestrator/internal/payment"
	"github.com/metinatakli/payment-orchestrator/internal/repository"
	"github.com/metinatakli/payment-orchestrator/internal/service"
	"github.com/metinatakli/payment-orchestrator/internal/signature"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	ErrInternalServer = "The server encountered a problem and could not process your request"
	ErrUnauthorized   = "You must be authenticated to access this resource"
	ErrNotFound       = "The requested resource not found"

	testVNPaySecret   = "VNPAYSECRET"
	testOperatorToken = "operator-secret"
	testResultURL     = "https://shop.example.com/payment/result"
	testUserId        = "user-1"
)

type testApplication struct {
	*Application
	repo      *repository.MemoryPaymentRepository
	publisher *mocks.MockEventPublisher
}

// newTestApplication wires a real orchestrator over the in-memory store and a
// VNPay adapter with test credentials. opts may replace any service option.
func newTestApplication(t *testing.T, opts ...func(*service.Options)) *testApplication {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewMemoryPaymentRepository()

	publisher := &mocks.MockEventPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := Config{
		Env:           "test",
		PublicBaseURL: "https://pay.example.com",
		ResultURL:     testResultURL,
		OperatorToken: testOperatorToken,
	}

	options := service.Options{
		Repository: repo,
		Publisher:  publisher,
		Providers: []domain.PaymentProvider{
			payment.NewVNPayProvider(payment.VNPayConfig{
				TmnCode:    "TESTTMN1",
				HashSecret: testVNPaySecret,
				PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
				ResultURL:  testResultURL,
			}),
		},
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	}

	for _, opt := range opts {
		opt(&options)
	}

	payments, err := service.NewPaymentService(options)
	require.NoError(t, err)

	return &testApplication{
		Application: NewApp(cfg, logger, payments),
		repo:        repo,
		publisher:   publisher,
	}
}

func (app *testApplication) seedPayment(t *testing.T, reference string, amount int64, status domain.PaymentStatus) *domain.Payment {
	t.Helper()

	p := &domain.Payment{
		BookingID: "42",
		UserID:    testUserId,
		Method:    domain.PaymentMethodVNPay,
		Amount:    decimal.NewFromInt(amount),
		Reference: reference,
		Status:    status,
	}
	require.NoError(t, app.repo.Create(context.Background(), p))

	return p
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

// signedVNPayQuery signs params with the test secret the way VNPay does.
func signedVNPayQuery(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("vnp_SecureHash", signature.VNPay.Digest(params, testVNPaySecret))

	return q.Encode()
}

func vnpayParams(reference, amount, responseCode string) map[string]string {
	return map[string]string{
		"vnp_TmnCode":           "TESTTMN1",
		"vnp_Amount":            amount,
		"vnp_ResponseCode":      responseCode,
		"vnp_TransactionStatus": responseCode,
		"vnp_TransactionNo":     "14012345",
		"vnp_TxnRef":            reference,
		"vnp_OrderInfo":         "Thanh toan booking 42",
	}
}

func ptr[T any](v T) *T {
	return &v
}
