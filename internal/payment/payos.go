package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/signature"
	"github.com/shopspring/decimal"
)

const (
	payosSuccessCode    = "00"
	payosCreatePath     = "/v2/payment-requests"
	payosMaxDescription = 25
	// payOS order codes must stay below 2^53 - 1.
	payosMaxOrderCode = 9007199254740991
)

// PayOSConfig configures one payOS channel. VietQR and PayOS are both served
// by the payOS API with separate credentials; ExposeQR selects whether the
// VietQR payload is surfaced to the customer.
type PayOSConfig struct {
	Method      domain.PaymentMethod
	ClientID    string
	APIKey      string
	ChecksumKey string
	BaseURL     string
	CancelURL   string
	ReturnURL   string
	ExposeQR    bool
}

func (c PayOSConfig) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client id")
	}
	if c.APIKey == "" {
		missing = append(missing, "api key")
	}
	if c.ChecksumKey == "" {
		missing = append(missing, "checksum key")
	}
	if c.BaseURL == "" {
		missing = append(missing, "base url")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrConfig, c.Method.Slug(), strings.Join(missing, ", "))
	}

	return nil
}

type payosCreateRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CancelURL   string `json:"cancelUrl"`
	ReturnURL   string `json:"returnUrl"`
	Signature   string `json:"signature"`
}

type payosEnvelope struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Success   *bool           `json:"success,omitempty"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

type payosPaymentLink struct {
	OrderCode     int64  `json:"orderCode"`
	Amount        int64  `json:"amount"`
	PaymentLinkID string `json:"paymentLinkId"`
	Status        string `json:"status"`
	CheckoutURL   string `json:"checkoutUrl"`
	QRCode        string `json:"qrCode"`
}

// PayOSWebhookResponse is the acknowledgement body for payOS webhooks.
type PayOSWebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PayOSProvider struct {
	cfg    PayOSConfig
	client *http.Client
}

func NewPayOSProvider(cfg PayOSConfig, client *http.Client) *PayOSProvider {
	return &PayOSProvider{
		cfg:    cfg,
		client: client,
	}
}

func (p *PayOSProvider) Method() domain.PaymentMethod {
	return p.cfg.Method
}

// FormatReference produces the numeric payOS orderCode: the last 11 digits of
// the millisecond timestamp followed by four random digits.
func (p *PayOSProvider) FormatReference(seed domain.ReferenceSeed) string {
	code := (seed.Timestamp.UnixMilli()%100_000_000_000)*10_000 + int64(seed.Random%10_000)

	return strconv.FormatInt(code, 10)
}

func (p *PayOSProvider) Initiate(ctx context.Context, req domain.CreateRequest) (*domain.InitiateResult, error) {
	err := p.cfg.Validate()
	if err != nil {
		return nil, err
	}

	orderCode, err := strconv.ParseInt(req.Reference, 10, 64)
	if err != nil || orderCode <= 0 || orderCode > payosMaxOrderCode {
		return nil, fmt.Errorf("%w: payos order code %q", domain.ErrValidation, req.Reference)
	}

	amount, err := signature.ScaleAmount(req.Amount, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	amountValue, _ := strconv.ParseInt(amount, 10, 64)

	description := req.Description
	if description == "" {
		description = "Booking " + req.Reference
	}

	body := payosCreateRequest{
		OrderCode:   orderCode,
		Amount:      amountValue,
		Description: truncate(description, payosMaxDescription),
		CancelURL:   firstNonEmpty(p.cfg.CancelURL, req.ReturnURL),
		ReturnURL:   firstNonEmpty(p.cfg.ReturnURL, req.ReturnURL),
	}

	body.Signature = signature.PayOS.Digest(map[string]string{
		"amount":      amount,
		"cancelUrl":   body.CancelURL,
		"description": body.Description,
		"orderCode":   req.Reference,
		"returnUrl":   body.ReturnURL,
	}, p.cfg.ChecksumKey)

	headers := map[string]string{
		"x-client-id": p.cfg.ClientID,
		"x-api-key":   p.cfg.APIKey,
	}

	var resp payosEnvelope

	err = postJSON(ctx, p.client, strings.TrimRight(p.cfg.BaseURL, "/")+payosCreatePath, headers, body, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s create %s: %w", p.cfg.Method.Slug(), req.Reference, err)
	}

	if resp.Code != payosSuccessCode {
		return nil, fmt.Errorf("%w: payos code %s: %s", domain.ErrUpstream, resp.Code, resp.Desc)
	}

	dataParams, err := flattenJSON(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: payos response data: %v", domain.ErrUpstream, err)
	}

	if resp.Signature != "" && !signature.PayOS.Verify(dataParams, resp.Signature, p.cfg.ChecksumKey) {
		return nil, fmt.Errorf("%w: payos response signature mismatch", domain.ErrUpstream)
	}

	var link payosPaymentLink

	err = json.Unmarshal(resp.Data, &link)
	if err != nil {
		return nil, fmt.Errorf("%w: payos response data: %v", domain.ErrUpstream, err)
	}

	if link.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: payos returned no checkoutUrl", domain.ErrUpstream)
	}

	result := &domain.InitiateResult{
		RedirectURL:       &link.CheckoutURL,
		ProviderReference: req.Reference,
	}
	if p.cfg.ExposeQR && link.QRCode != "" {
		result.QRImageURL = &link.QRCode
	}

	return result, nil
}

// VerifyNotification checks a payOS webhook body. The signature covers the
// data object only.
func (p *PayOSProvider) VerifyNotification(ctx context.Context, payload domain.NotificationPayload) (*domain.NotificationResult, error) {
	err := p.cfg.Validate()
	if err != nil {
		return nil, err
	}

	var envelope payosEnvelope

	err = json.Unmarshal(payload.Body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" || envelope.Signature == "" {
		return nil, fmt.Errorf("%w: missing data or signature", domain.ErrMalformedPayload)
	}

	data, err := flattenJSON(envelope.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	for _, field := range []string{"orderCode", "amount"} {
		if data[field] == "" {
			return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformedPayload, field)
		}
	}

	if !signature.PayOS.Verify(data, envelope.Signature, p.cfg.ChecksumKey) {
		return nil, fmt.Errorf("%w: payos signature mismatch for %s", domain.ErrSignature, data["orderCode"])
	}

	amount, err := decimal.NewFromString(data["amount"])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", domain.ErrMalformedPayload, data["amount"])
	}

	code := firstNonEmpty(data["code"], envelope.Code)

	return &domain.NotificationResult{
		Reference:             data["orderCode"],
		Amount:                amount,
		ProviderTransactionID: firstNonEmpty(data["reference"], data["paymentLinkId"]),
		OutcomeCode:           code,
		Success:               code == payosSuccessCode,
		RawPayload:            payload.Body,
	}, nil
}

func (p *PayOSProvider) Acknowledge(report domain.NotificationReport) domain.Acknowledgement {
	resp := PayOSWebhookResponse{Success: true, Message: "Processed"}

	switch report.Outcome {
	case domain.NotificationDuplicate:
		resp.Message = "Already processed"
	case domain.NotificationRejected:
		resp = PayOSWebhookResponse{Success: false, Message: rejectionMessage(report.Err)}
	}

	return domain.Acknowledgement{StatusCode: http.StatusOK, Body: resp}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
