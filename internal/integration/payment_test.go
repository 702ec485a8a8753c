package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PaymentFlowTestSuite struct {
	BaseSuite
}

func TestPaymentFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(PaymentFlowTestSuite))
}

func (s *PaymentFlowTestSuite) TestCreatePayment() {
	scenarios := []Scenario{
		{
			Name:             "returns 401 without a user id",
			Method:           http.MethodPost,
			URL:              "/payments",
			Body:             strings.NewReader(`{"bookingId":"42","amount":150000,"method":"VNPAY"}`),
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
		},
		{
			Name:           "returns 422 for an unsupported method",
			Method:         http.MethodPost,
			URL:            "/payments",
			Body:           strings.NewReader(`{"bookingId":"42","amount":150000,"method":"PAYPAL"}`),
			Headers:        map[string]string{"X-User-ID": TestUserId},
			ExpectedStatus: http.StatusUnprocessableEntity,
			ExpectedResponse: `{
				"message": "One or more fields have invalid values",
				"validationErrors": [{"field": "method", "issue": "must be one of VNPAY, MOMO, VIETQR, PAYOS"}]
			}`,
		},
		{
			Name:           "creates a pending vnpay payment",
			Method:         http.MethodPost,
			URL:            "/payments",
			Body:           strings.NewReader(`{"bookingId":"42","amount":"150000","method":"vnpay"}`),
			Headers:        map[string]string{"X-User-ID": TestUserId},
			ExpectedStatus: http.StatusCreated,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var body map[string]any
				require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

				reference, _ := body["reference"].(string)
				stored, err := app.Repo.GetByReference(context.Background(), domain.PaymentMethodVNPay, reference)
				require.NoError(t, err)

				assert.Equal(t, domain.PaymentStatusPending, stored.Status)
				assert.Equal(t, TestUserId, stored.UserID)
				assert.Equal(t, "150000", stored.Amount.String())
				require.NotNil(t, stored.PaymentURL)
				assert.Contains(t, *stored.PaymentURL, "vnp_TxnRef="+reference)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *PaymentFlowTestSuite) TestVNPayIPNCompletesPayment() {
	ctx := context.Background()
	stored := insertPayment(s.T(), s.app, "BK42_1740798245000_0007", 150000, domain.PaymentStatusPending)
	url := "/payments/vnpay/ipn?" + signedVNPayQuery(stored.Reference, "15000000", "00")

	scenarios := []Scenario{
		{
			Name:             "confirms the first delivery",
			Method:           http.MethodGet,
			URL:              url,
			ExpectedStatus:   http.StatusOK,
			ExpectedResponse: `{"RspCode": "00", "Message": "Confirm Success"}`,
		},
		{
			Name:             "reports a redelivery as already confirmed",
			Method:           http.MethodGet,
			URL:              url,
			ExpectedStatus:   http.StatusOK,
			ExpectedResponse: `{"RspCode": "02", "Message": "Order already confirmed"}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}

	got, err := s.app.Repo.GetByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusSuccess, got.Status)
	s.Equal("14012345", *got.TransactionID)

	entries, err := s.app.RedisClient.XRange(ctx, TestStreamPrefix+domain.TopicPaymentSuccess, "-", "+").Result()
	s.Require().NoError(err)
	s.Len(entries, 1, "a redelivered notification must not emit again")
}

func (s *PaymentFlowTestSuite) TestVNPayIPNRejectsTamperedAmount() {
	ctx := context.Background()
	stored := insertPayment(s.T(), s.app, "BK42_1740798245000_0008", 150000, domain.PaymentStatusPending)

	query := strings.Replace(signedVNPayQuery(stored.Reference, "15000000", "00"), "vnp_Amount=15000000", "vnp_Amount=100", 1)

	Scenario{
		Name:             "rejects an IPN whose signed fields were altered",
		Method:           http.MethodGet,
		URL:              "/payments/vnpay/ipn?" + query,
		ExpectedStatus:   http.StatusOK,
		ExpectedResponse: `{"RspCode": "97", "Message": "Invalid signature"}`,
	}.Run(s.T(), s.app)

	got, err := s.app.Repo.GetByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusPending, got.Status)
}

func (s *PaymentFlowTestSuite) TestForceSuccess() {
	ctx := context.Background()
	stored := insertPayment(s.T(), s.app, "BK42_1740798245000_0009", 150000, domain.PaymentStatusPending)

	Scenario{
		Name:           "operator forces a pending payment to success",
		Method:         http.MethodPost,
		URL:            "/payments/" + stored.ID.String() + "/verify",
		Body:           strings.NewReader(`{"transactionId":"MANUAL-1"}`),
		Headers:        map[string]string{"X-Operator-Token": TestOperatorToken, "X-Operator": "alice"},
		ExpectedStatus: http.StatusOK,
		AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
			raw, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"status":"SUCCESS"`)
			assert.Contains(t, string(raw), `"transactionId":"MANUAL-1"`)
		},
	}.Run(s.T(), s.app)

	entries, err := s.app.RedisClient.XRange(ctx, TestStreamPrefix+domain.TopicPaymentSuccess, "-", "+").Result()
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func (s *PaymentFlowTestSuite) TestForceSuccessRefusesFailedPayment() {
	ctx := context.Background()
	stored := insertPayment(s.T(), s.app, "BK42_1740798245000_0010", 150000, domain.PaymentStatusFailed)

	Scenario{
		Name:           "operator cannot revive a failed payment",
		Method:         http.MethodPost,
		URL:            "/payments/" + stored.ID.String() + "/verify",
		Body:           strings.NewReader(`{"transactionId":"MANUAL-2"}`),
		Headers:        map[string]string{"X-Operator-Token": TestOperatorToken},
		ExpectedStatus: http.StatusConflict,
	}.Run(s.T(), s.app)

	got, err := s.app.Repo.GetByID(ctx, stored.ID)
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusFailed, got.Status)

	entries, err := s.app.RedisClient.XRange(ctx, TestStreamPrefix+domain.TopicPaymentSuccess, "-", "+").Result()
	s.Require().NoError(err)
	s.Empty(entries)
}
