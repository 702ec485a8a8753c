package payment

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/signature"
	"github.com/shopspring/decimal"
)

const (
	momoRequestType  = "captureWallet"
	momoMaxReference = 50
	momoSuccessCode  = "0"
	momoCreatePath   = "/v2/gateway/api/create"
)

type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	// Endpoint is the gateway base URL, e.g. https://test-payment.momo.vn.
	Endpoint    string
	PartnerName string
	StoreID     string
	Lang        string
	ResultURL   string
}

func (c MoMoConfig) Validate() error {
	var missing []string
	if c.PartnerCode == "" {
		missing = append(missing, "partner code")
	}
	if c.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: momo %s", domain.ErrConfig, strings.Join(missing, ", "))
	}

	return nil
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	PartnerName string `json:"partnerName,omitempty"`
	StoreID     string `json:"storeId,omitempty"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	Lang        string `json:"lang"`
	RequestType string `json:"requestType"`
	AutoCapture bool   `json:"autoCapture"`
	ExtraData   string `json:"extraData"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	ResponseTime int64  `json:"responseTime"`
	Message      string `json:"message"`
	ResultCode   int    `json:"resultCode"`
	PayURL       string `json:"payUrl"`
	Deeplink     string `json:"deeplink"`
	QRCodeURL    string `json:"qrCodeUrl"`
	Signature    string `json:"signature"`
}

type MoMoProvider struct {
	cfg    MoMoConfig
	client *http.Client
}

func NewMoMoProvider(cfg MoMoConfig, client *http.Client) *MoMoProvider {
	if cfg.Lang == "" {
		cfg.Lang = "vi"
	}

	return &MoMoProvider{
		cfg:    cfg,
		client: client,
	}
}

func (p *MoMoProvider) Method() domain.PaymentMethod {
	return domain.PaymentMethodMoMo
}

// FormatReference produces a MoMo orderId: letters, digits, "-", "_" and ".",
// at most 50 characters.
func (p *MoMoProvider) FormatReference(seed domain.ReferenceSeed) string {
	raw := fmt.Sprintf("BK%s-%d-%04d", seed.BookingID, seed.Timestamp.UnixMilli(), seed.Random%10000)

	return sanitize(raw, func(r rune) bool {
		return isAlnum(r) || r == '-' || r == '_' || r == '.'
	}, momoMaxReference)
}

func (p *MoMoProvider) Initiate(ctx context.Context, req domain.CreateRequest) (*domain.InitiateResult, error) {
	err := p.cfg.Validate()
	if err != nil {
		return nil, err
	}

	amount, err := signature.ScaleAmount(req.Amount, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Validated as an integer string by ScaleAmount.
	amountValue, _ := strconv.ParseInt(amount, 10, 64)

	body := momoCreateRequest{
		PartnerCode: p.cfg.PartnerCode,
		PartnerName: p.cfg.PartnerName,
		StoreID:     p.cfg.StoreID,
		RequestID:   req.Reference,
		Amount:      amountValue,
		OrderID:     req.Reference,
		OrderInfo:   req.Description,
		RedirectURL: req.ReturnURL,
		IpnURL:      req.CallbackURL,
		Lang:        p.cfg.Lang,
		RequestType: momoRequestType,
		AutoCapture: true,
		ExtraData:   "",
	}

	body.Signature = signature.MoMoCreate.Digest(map[string]string{
		"accessKey":   p.cfg.AccessKey,
		"amount":      amount,
		"extraData":   body.ExtraData,
		"ipnUrl":      body.IpnURL,
		"orderId":     body.OrderID,
		"orderInfo":   body.OrderInfo,
		"partnerCode": body.PartnerCode,
		"redirectUrl": body.RedirectURL,
		"requestId":   body.RequestID,
		"requestType": body.RequestType,
	}, p.cfg.SecretKey)

	var resp momoCreateResponse

	err = postJSON(ctx, p.client, strings.TrimRight(p.cfg.Endpoint, "/")+momoCreatePath, nil, body, &resp)
	if err != nil {
		return nil, fmt.Errorf("momo create %s: %w", req.Reference, err)
	}

	if resp.ResultCode != 0 {
		return nil, fmt.Errorf("%w: momo resultCode %d: %s", domain.ErrUpstream, resp.ResultCode, resp.Message)
	}

	if resp.Signature != "" && !p.verifyCreateResponse(resp) {
		return nil, fmt.Errorf("%w: momo create response signature mismatch", domain.ErrUpstream)
	}

	if resp.PayURL == "" {
		return nil, fmt.Errorf("%w: momo returned no payUrl", domain.ErrUpstream)
	}

	result := &domain.InitiateResult{
		RedirectURL:       &resp.PayURL,
		ProviderReference: req.Reference,
	}
	if resp.QRCodeURL != "" {
		result.QRImageURL = &resp.QRCodeURL
	}

	return result, nil
}

func (p *MoMoProvider) verifyCreateResponse(resp momoCreateResponse) bool {
	params := map[string]string{
		"accessKey":    p.cfg.AccessKey,
		"amount":       strconv.FormatInt(resp.Amount, 10),
		"message":      resp.Message,
		"orderId":      resp.OrderID,
		"partnerCode":  resp.PartnerCode,
		"payUrl":       resp.PayURL,
		"requestId":    resp.RequestID,
		"responseTime": strconv.FormatInt(resp.ResponseTime, 10),
		"resultCode":   strconv.Itoa(resp.ResultCode),
	}

	return signature.MoMoCreateResponse.Verify(params, resp.Signature, p.cfg.SecretKey)
}

// VerifyNotification accepts the IPN JSON body or the redirect query string;
// both carry the same signed fields.
func (p *MoMoProvider) VerifyNotification(ctx context.Context, payload domain.NotificationPayload) (*domain.NotificationResult, error) {
	err := p.cfg.Validate()
	if err != nil {
		return nil, err
	}

	var params map[string]string
	raw := payload.Body

	if len(bytes.TrimSpace(payload.Body)) > 0 {
		params, err = flattenJSON(payload.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
	} else {
		params = make(map[string]string, len(payload.Query))
		for key := range payload.Query {
			params[key] = payload.Query.Get(key)
		}
		raw = []byte(payload.Query.Encode())
	}

	for _, field := range []string{"orderId", "amount", "resultCode", "signature"} {
		if params[field] == "" {
			return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformedPayload, field)
		}
	}

	supplied := params["signature"]
	params["accessKey"] = p.cfg.AccessKey

	if !signature.MoMoNotify.Verify(params, supplied, p.cfg.SecretKey) {
		return nil, fmt.Errorf("%w: momo signature mismatch for %s", domain.ErrSignature, params["orderId"])
	}

	amount, err := decimal.NewFromString(params["amount"])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", domain.ErrMalformedPayload, params["amount"])
	}

	return &domain.NotificationResult{
		Reference:             params["orderId"],
		Amount:                amount,
		ProviderTransactionID: params["transId"],
		OutcomeCode:           params["resultCode"],
		Success:               params["resultCode"] == momoSuccessCode,
		RawPayload:            raw,
	}, nil
}

// momoIPNError is returned for IPNs that were not accepted so MoMo does not
// record them as delivered.
type momoIPNError struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

// Acknowledge answers an IPN with 204 No Content once it has been handled.
func (p *MoMoProvider) Acknowledge(report domain.NotificationReport) domain.Acknowledgement {
	if report.Channel == domain.ChannelReturn {
		return returnAck(p.cfg.ResultURL, p.Method(), report)
	}

	if report.Outcome == domain.NotificationRejected {
		return domain.Acknowledgement{
			StatusCode: http.StatusBadRequest,
			Body:       momoIPNError{ResultCode: 1, Message: rejectionMessage(report.Err)},
		}
	}

	return domain.Acknowledgement{StatusCode: http.StatusNoContent}
}
