package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/signature"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"updatedAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func truncatePayments(t testing.TB, app *TestApp) {
	t.Helper()

	_, err := app.DB.Exec(context.Background(), "TRUNCATE payments")
	require.NoError(t, err)

	require.NoError(t, app.RedisClient.FlushDB(context.Background()).Err())
}

func insertPayment(t testing.TB, app *TestApp, reference string, amount int64, status domain.PaymentStatus) *domain.Payment {
	t.Helper()

	p := &domain.Payment{
		BookingID: TestBookingId,
		UserID:    TestUserId,
		Method:    domain.PaymentMethodVNPay,
		Amount:    decimal.NewFromInt(amount),
		Reference: reference,
		Status:    status,
	}
	require.NoError(t, app.Repo.Create(context.Background(), p))

	return p
}

func signedVNPayQuery(reference, amount, responseCode string) string {
	params := map[string]string{
		"vnp_TmnCode":           TestVNPayTmnCode,
		"vnp_Amount":            amount,
		"vnp_ResponseCode":      responseCode,
		"vnp_TransactionStatus": responseCode,
		"vnp_TransactionNo":     "14012345",
		"vnp_TxnRef":            reference,
		"vnp_OrderInfo":         "Thanh toan booking " + TestBookingId,
	}

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("vnp_SecureHash", signature.VNPay.Digest(params, TestVNPaySecret))

	return q.Encode()
}
