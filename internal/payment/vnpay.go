package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/signature"
)

const (
	vnpayVersion      = "2.1.0"
	vnpayDateLayout   = "20060102150405"
	vnpayAmountFactor = 100
	vnpayExpiry       = 15 * time.Minute
	vnpayMaxReference = 100
	vnpaySuccessCode  = "00"
)

// VNPay timestamps are always GMT+7.
var vnpayLocation = time.FixedZone("ICT", 7*60*60)

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	Locale     string
	// ResultURL is the frontend page a returning customer is redirected to.
	ResultURL string
}

func (c VNPayConfig) Validate() error {
	var missing []string
	if c.TmnCode == "" {
		missing = append(missing, "tmn code")
	}
	if c.HashSecret == "" {
		missing = append(missing, "hash secret")
	}
	if c.PayURL == "" {
		missing = append(missing, "pay url")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: vnpay %s", domain.ErrConfig, strings.Join(missing, ", "))
	}

	return nil
}

// VNPayIPNResponse is the only body VNPay accepts on its IPN endpoint.
type VNPayIPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type VNPayProvider struct {
	cfg VNPayConfig
	now func() time.Time
}

func NewVNPayProvider(cfg VNPayConfig) *VNPayProvider {
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}

	return &VNPayProvider{
		cfg: cfg,
		now: time.Now,
	}
}

func (p *VNPayProvider) Method() domain.PaymentMethod {
	return domain.PaymentMethodVNPay
}

// FormatReference produces vnp_TxnRef: letters, digits, "_" and "-", at most
// 100 characters.
func (p *VNPayProvider) FormatReference(seed domain.ReferenceSeed) string {
	raw := fmt.Sprintf("BK%s_%d_%04d", seed.BookingID, seed.Timestamp.UnixMilli(), seed.Random%10000)

	return sanitize(raw, func(r rune) bool {
		return isAlnum(r) || r == '_' || r == '-'
	}, vnpayMaxReference)
}

// Initiate builds the signed redirect URL. VNPay has no create API, so no
// network call is made.
func (p *VNPayProvider) Initiate(ctx context.Context, req domain.CreateRequest) (*domain.InitiateResult, error) {
	err := p.cfg.Validate()
	if err != nil {
		return nil, err
	}

	amount, err := signature.ScaleAmount(req.Amount, vnpayAmountFactor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ip := req.ClientIP
	if ip == "" {
		ip = "127.0.0.1"
	}

	orderInfo := req.Description
	if orderInfo == "" {
		orderInfo = "Thanh toan don hang"
	}

	now := p.now().In(vnpayLocation)

	params := map[string]string{
		"vnp_Version":    vnpayVersion,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    p.cfg.TmnCode,
		"vnp_Amount":     amount,
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.Reference,
		"vnp_OrderInfo":  truncate(orderInfo, 255),
		"vnp_OrderType":  "other",
		"vnp_Locale":     p.cfg.Locale,
		"vnp_ReturnUrl":  req.ReturnURL,
		"vnp_IpAddr":     truncate(ip, 45),
		"vnp_CreateDate": now.Format(vnpayDateLayout),
		"vnp_ExpireDate": now.Add(vnpayExpiry).Format(vnpayDateLayout),
	}

	canonical := signature.VNPay.Canonicalize(params)
	hash := signature.VNPay.Sign(canonical, p.cfg.HashSecret)

	// The query string uses the exact bytes that were signed.
	redirect := p.cfg.PayURL + "?" + string(canonical) + "&vnp_SecureHash=" + hash

	return &domain.InitiateResult{
		RedirectURL:       &redirect,
		ProviderReference: req.Reference,
	}, nil
}

// VerifyNotification checks an IPN or return query string.
func (p *VNPayProvider) VerifyNotification(ctx context.Context, payload domain.NotificationPayload) (*domain.NotificationResult, error) {
	err := p.cfg.Validate()
	if err != nil {
		return nil, err
	}

	params := make(map[string]string)
	for key, values := range payload.Query {
		if strings.HasPrefix(key, "vnp_") && len(values) > 0 {
			params[key] = values[0]
		}
	}

	for _, field := range []string{"vnp_TxnRef", "vnp_Amount", "vnp_ResponseCode", "vnp_SecureHash"} {
		if params[field] == "" {
			return nil, fmt.Errorf("%w: missing %s", domain.ErrMalformedPayload, field)
		}
	}

	if !signature.VNPay.Verify(params, params["vnp_SecureHash"], p.cfg.HashSecret) {
		return nil, fmt.Errorf("%w: vnpay secure hash mismatch for %s", domain.ErrSignature, params["vnp_TxnRef"])
	}

	amount, err := signature.UnscaleAmount(params["vnp_Amount"], vnpayAmountFactor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	// Both codes must be 00; a missing transaction status is not a success.
	responseCode := params["vnp_ResponseCode"]
	transactionStatus := params["vnp_TransactionStatus"]

	return &domain.NotificationResult{
		Reference:             params["vnp_TxnRef"],
		Amount:                amount,
		ProviderTransactionID: params["vnp_TransactionNo"],
		OutcomeCode:           responseCode,
		Success:               responseCode == vnpaySuccessCode && transactionStatus == vnpaySuccessCode,
		RawPayload:            []byte(payload.Query.Encode()),
	}, nil
}

func (p *VNPayProvider) Acknowledge(report domain.NotificationReport) domain.Acknowledgement {
	if report.Channel == domain.ChannelReturn {
		return returnAck(p.cfg.ResultURL, p.Method(), report)
	}

	return domain.Acknowledgement{StatusCode: http.StatusOK, Body: vnpayIPNResponse(report)}
}

func vnpayIPNResponse(report domain.NotificationReport) VNPayIPNResponse {
	switch report.Outcome {
	case domain.NotificationApplied:
		return VNPayIPNResponse{RspCode: "00", Message: "Confirm Success"}
	case domain.NotificationDuplicate:
		return VNPayIPNResponse{RspCode: "02", Message: "Order already confirmed"}
	}

	switch {
	case errors.Is(report.Err, domain.ErrSignature):
		return VNPayIPNResponse{RspCode: "97", Message: "Invalid signature"}
	case errors.Is(report.Err, domain.ErrRecordNotFound):
		return VNPayIPNResponse{RspCode: "01", Message: "Order not found"}
	case errors.Is(report.Err, domain.ErrAmountMismatch):
		return VNPayIPNResponse{RspCode: "04", Message: "Invalid amount"}
	default:
		return VNPayIPNResponse{RspCode: "99", Message: "Unknown error"}
	}
}
