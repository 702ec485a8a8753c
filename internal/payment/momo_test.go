package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/signature"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMoMoAccessKey = "F8BBA842ECF85"
	testMoMoSecretKey = "K951B6PE1waDMi640xX08PD3vg6EkVlz"
)

func newTestMoMo(endpoint string) *MoMoProvider {
	return NewMoMoProvider(MoMoConfig{
		PartnerCode: "MOMO",
		AccessKey:   testMoMoAccessKey,
		SecretKey:   testMoMoSecretKey,
		Endpoint:    endpoint,
	}, NewHTTPClient(2*time.Second))
}

func signedMoMoResponse(resp momoCreateResponse) momoCreateResponse {
	resp.Signature = signature.MoMoCreateResponse.Digest(map[string]string{
		"accessKey":    testMoMoAccessKey,
		"amount":       strconv.FormatInt(resp.Amount, 10),
		"message":      resp.Message,
		"orderId":      resp.OrderID,
		"partnerCode":  resp.PartnerCode,
		"payUrl":       resp.PayURL,
		"requestId":    resp.RequestID,
		"responseTime": strconv.FormatInt(resp.ResponseTime, 10),
		"resultCode":   strconv.Itoa(resp.ResultCode),
	}, testMoMoSecretKey)

	return resp
}

func momoIPNBody(t *testing.T, overrides map[string]any) []byte {
	t.Helper()

	fields := map[string]any{
		"partnerCode":  "MOMO",
		"orderId":      "BK42-1740798245000-0007",
		"requestId":    "BK42-1740798245000-0007",
		"amount":       150000,
		"orderInfo":    "Ve xem phim 42",
		"orderType":    "momo_wallet",
		"transId":      4088878653,
		"resultCode":   0,
		"message":      "Successful.",
		"payType":      "qr",
		"responseTime": 1740798300000,
		"extraData":    "",
	}
	for k, v := range overrides {
		fields[k] = v
	}

	signed := map[string]string{"accessKey": testMoMoAccessKey}
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			signed[k] = val
		case int:
			signed[k] = strconv.Itoa(val)
		}
	}
	if _, ok := fields["signature"]; !ok {
		fields["signature"] = signature.MoMoNotify.Digest(signed, testMoMoSecretKey)
	}

	body, err := json.Marshal(fields)
	require.NoError(t, err)

	return body
}

func TestMoMoFormatReference(t *testing.T) {
	p := newTestMoMo("http://unused")

	got := p.FormatReference(domain.ReferenceSeed{
		BookingID: "booking#42 with spaces and a very long suffix that overflows",
		Timestamp: time.UnixMilli(1740798245000),
		Random:    7,
	})

	assert.LessOrEqual(t, len(got), momoMaxReference)
	assert.Regexp(t, `^[0-9A-Za-z_.-]+$`, got)
	assert.Equal(t, "BKbooking42withspacesandaverylongsuffixthatoverflo", got)
}

func TestMoMoInitiate(t *testing.T) {
	var received momoCreateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, momoCreatePath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(signedMoMoResponse(momoCreateResponse{
			PartnerCode:  "MOMO",
			OrderID:      received.OrderID,
			RequestID:    received.RequestID,
			Amount:       received.Amount,
			ResponseTime: 1740798245123,
			Message:      "Successful.",
			ResultCode:   0,
			PayURL:       "https://test-payment.momo.vn/pay/abc",
			QRCodeURL:    "momo://qr/abc",
		}))
	}))
	defer server.Close()

	p := newTestMoMo(server.URL)

	result, err := p.Initiate(context.Background(), domain.CreateRequest{
		Reference:   "BK42-1740798245000-0007",
		Amount:      decimal.NewFromInt(150000),
		Description: "Ve xem phim 42",
		ReturnURL:   "https://api.example.com/payments/momo/return",
		CallbackURL: "https://api.example.com/payments/momo/ipn",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", *result.RedirectURL)
	assert.Equal(t, "momo://qr/abc", *result.QRImageURL)

	assert.Equal(t, int64(150000), received.Amount)
	assert.Equal(t, momoRequestType, received.RequestType)
	assert.Equal(t, "vi", received.Lang)
	assert.True(t, received.AutoCapture)

	wantSig := signature.MoMoCreate.Digest(map[string]string{
		"accessKey":   testMoMoAccessKey,
		"amount":      "150000",
		"extraData":   "",
		"ipnUrl":      "https://api.example.com/payments/momo/ipn",
		"orderId":     "BK42-1740798245000-0007",
		"orderInfo":   "Ve xem phim 42",
		"partnerCode": "MOMO",
		"redirectUrl": "https://api.example.com/payments/momo/return",
		"requestId":   "BK42-1740798245000-0007",
		"requestType": momoRequestType,
	}, testMoMoSecretKey)
	assert.Equal(t, wantSig, received.Signature)
}

func TestMoMoInitiateFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "should fail on a non-zero result code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(momoCreateResponse{ResultCode: 1005, Message: "expired"})
			},
		},
		{
			name: "should fail on a non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "should fail on a forged response signature",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(momoCreateResponse{
					ResultCode: 0,
					PayURL:     "https://evil.example.com",
					Signature:  "deadbeef",
				})
			},
		},
		{
			name: "should fail when no payUrl is returned",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(momoCreateResponse{ResultCode: 0})
			},
		},
		{
			name: "should fail on an undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := newTestMoMo(server.URL).Initiate(context.Background(), domain.CreateRequest{
				Reference: "BK1-1-0001",
				Amount:    decimal.NewFromInt(1000),
			})

			assert.True(t, errors.Is(err, domain.ErrUpstream), "got %v", err)
		})
	}
}

func TestMoMoInitiateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	p := NewMoMoProvider(MoMoConfig{
		PartnerCode: "MOMO",
		AccessKey:   testMoMoAccessKey,
		SecretKey:   testMoMoSecretKey,
		Endpoint:    server.URL,
	}, NewHTTPClient(20*time.Millisecond))

	_, err := p.Initiate(context.Background(), domain.CreateRequest{Reference: "BK1-1-0001", Amount: decimal.NewFromInt(1000)})

	assert.True(t, errors.Is(err, domain.ErrUpstream), "got %v", err)
}

func TestMoMoVerifyNotification(t *testing.T) {
	p := newTestMoMo("http://unused")

	tests := []struct {
		name        string
		body        func(t *testing.T) []byte
		wantErr     error
		wantSuccess bool
	}{
		{
			name:        "should accept a signed success IPN",
			body:        func(t *testing.T) []byte { return momoIPNBody(t, nil) },
			wantSuccess: true,
		},
		{
			name: "should report a failed payment",
			body: func(t *testing.T) []byte {
				return momoIPNBody(t, map[string]any{"resultCode": 1006, "message": "Transaction denied by user."})
			},
			wantSuccess: false,
		},
		{
			name: "should reject a forged signature",
			body: func(t *testing.T) []byte {
				return momoIPNBody(t, map[string]any{"signature": "0000"})
			},
			wantErr: domain.ErrSignature,
		},
		{
			name: "should reject invalid JSON",
			body: func(t *testing.T) []byte {
				return []byte("{not json")
			},
			wantErr: domain.ErrMalformedPayload,
		},
		{
			name: "should reject a body without an order id",
			body: func(t *testing.T) []byte {
				return []byte(`{"amount":1,"resultCode":0,"signature":"x"}`)
			},
			wantErr: domain.ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.VerifyNotification(context.Background(), domain.NotificationPayload{Body: tt.body(t)})

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "BK42-1740798245000-0007", res.Reference)
			assert.Equal(t, "4088878653", res.ProviderTransactionID)
			assert.True(t, res.Amount.Equal(decimal.NewFromInt(150000)))
			assert.Equal(t, tt.wantSuccess, res.Success)
		})
	}
}

func TestMoMoVerifyTamperedAmount(t *testing.T) {
	p := newTestMoMo("http://unused")

	var fields map[string]any
	require.NoError(t, json.Unmarshal(momoIPNBody(t, nil), &fields))
	fields["amount"] = 1
	body, err := json.Marshal(fields)
	require.NoError(t, err)

	_, err = p.VerifyNotification(context.Background(), domain.NotificationPayload{Body: body})

	assert.True(t, errors.Is(err, domain.ErrSignature))
}

func TestMoMoAcknowledge(t *testing.T) {
	p := newTestMoMo("http://unused")

	ack := p.Acknowledge(domain.NotificationReport{Outcome: domain.NotificationApplied})
	assert.Equal(t, http.StatusNoContent, ack.StatusCode)
	assert.Nil(t, ack.Body)

	ack = p.Acknowledge(domain.NotificationReport{Outcome: domain.NotificationDuplicate})
	assert.Equal(t, http.StatusNoContent, ack.StatusCode)

	ack = p.Acknowledge(domain.NotificationReport{Outcome: domain.NotificationRejected, Err: domain.ErrSignature})
	assert.Equal(t, http.StatusBadRequest, ack.StatusCode)
	assert.Equal(t, momoIPNError{ResultCode: 1, Message: "Invalid signature"}, ack.Body)

	ack = p.Acknowledge(domain.NotificationReport{Channel: domain.ChannelReturn, Outcome: domain.NotificationRejected})
	assert.Equal(t, http.StatusOK, ack.StatusCode)
	assert.Equal(t, map[string]string{"status": "error"}, ack.Body)
}
