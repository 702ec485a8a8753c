package validator

import (
	"errors"
	"testing"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentInput struct {
	BookingID string          `json:"bookingId" validate:"required,max=8"`
	Amount    decimal.Decimal `json:"amount" validate:"vnd_amount"`
	Method    string          `json:"method" validate:"required,payment_method"`
}

func TestValidatorPaymentRules(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		input      paymentInput
		wantFields map[string]string
	}{
		{
			name:  "should accept a valid input",
			input: paymentInput{BookingID: "42", Amount: decimal.NewFromInt(150000), Method: "vnpay"},
		},
		{
			name:  "should reject a fractional amount",
			input: paymentInput{BookingID: "42", Amount: decimal.RequireFromString("10.5"), Method: "MOMO"},
			wantFields: map[string]string{
				"amount": "must be a positive whole number of VND",
			},
		},
		{
			name:  "should reject a zero amount and an unknown method",
			input: paymentInput{BookingID: "42", Amount: decimal.Zero, Method: "stripe"},
			wantFields: map[string]string{
				"amount": "must be a positive whole number of VND",
				"method": "must be one of VNPAY, MOMO, VIETQR, PAYOS",
			},
		},
		{
			name:  "should reject an oversized booking id",
			input: paymentInput{BookingID: "123456789", Amount: decimal.NewFromInt(1), Method: "PAYOS"},
			wantFields: map[string]string{
				"bookingId": "must be at most 8 characters long",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ToDomain(v.Struct(tt.input))

			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.True(t, errors.Is(err, domain.ErrValidation))

			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))

			got := make(map[string]string)
			for _, f := range validationErr.Fields {
				got[f.Field] = f.Issue
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}
