package app

import (
	"github.com/metinatakli/payment-orchestrator/api"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/metinatakli/payment-orchestrator/internal/service"
)

func toCreatePaymentInput(req api.CreatePaymentRequest) service.CreatePaymentInput {
	input := service.CreatePaymentInput{
		BookingID: req.BookingId,
		Amount:    req.Amount,
		Method:    req.Method,
	}

	if req.Description != nil {
		input.Description = *req.Description
	}

	return input
}

func toPagination(params api.ListPaymentsHandlerParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     1,
		PageSize: service.DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}
	if params.Term != nil {
		pagination.Term = *params.Term
	}
	if params.Sort != nil {
		pagination.Sort = *params.Sort
	}

	return pagination
}

func toPaymentResponse(p *domain.Payment) api.PaymentResponse {
	return api.PaymentResponse{
		Id:            p.ID,
		BookingId:     p.BookingID,
		UserId:        p.UserID,
		Method:        api.PaymentMethod(p.Method),
		Amount:        p.Amount,
		Reference:     p.Reference,
		TransactionId: p.TransactionID,
		QrImageUrl:    p.QRImageURL,
		PaymentUrl:    p.PaymentURL,
		Status:        api.PaymentStatus(p.Status),
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPaymentListResponse(payments []domain.Payment, metadata *domain.Metadata) api.PaymentListResponse {
	resp := api.PaymentListResponse{
		Payments: make([]api.PaymentResponse, 0, len(payments)),
		Metadata: toMetadata(metadata),
	}

	for i := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(&payments[i]))
	}

	return resp
}

func toMetadata(m *domain.Metadata) api.Metadata {
	if m == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  m.CurrentPage,
		FirstPage:    m.FirstPage,
		LastPage:     m.LastPage,
		PageSize:     m.PageSize,
		TotalRecords: m.TotalRecords,
	}
}
