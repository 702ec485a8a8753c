package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

const paymentColumns = `id, booking_id, user_id, method, amount, reference, transaction_id,
	qr_image_url, payment_url, status, payment_date, created_at, updated_at`

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			booking_id,
			user_id,
			method,
			amount,
			reference,
			qr_image_url,
			payment_url,
			status,
			payment_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		payment.BookingID,
		payment.UserID,
		payment.Method,
		payment.Amount,
		payment.Reference,
		payment.QRImageURL,
		payment.PaymentURL,
		payment.Status,
		payment.PaymentDate,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s %s", domain.ErrConflict, payment.Method, payment.Reference)
		}

		return err
	}

	return nil
}

func (p *PostgresPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return payment, nil
}

func (p *PostgresPaymentRepository) GetByReference(
	ctx context.Context,
	method domain.PaymentMethod,
	reference string) (*domain.Payment, error) {

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE method = $1 AND reference = $2`

	payment, err := scanPayment(p.db.QueryRow(ctx, query, method, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return payment, nil
}

// UpdateStatus applies the transition only while the row still has the
// expected status. A lost race returns domain.ErrEditConflict.
func (p *PostgresPaymentRepository) UpdateStatus(ctx context.Context, update domain.StatusUpdate) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET status = $3,
			transaction_id = COALESCE($4, transaction_id),
			payment_date = COALESCE($5, payment_date),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + paymentColumns

	payment, err := scanPayment(p.db.QueryRow(
		ctx,
		query,
		update.ID,
		update.From,
		update.To,
		update.TransactionID,
		update.PaymentDate,
	))

	if err == nil {
		return payment, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool

	err = p.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, update.ID).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if !exists {
		return nil, domain.ErrRecordNotFound
	}

	return nil, domain.ErrEditConflict
}

func (p *PostgresPaymentRepository) List(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Payment, *domain.Metadata, error) {

	query := fmt.Sprintf(`SELECT count(*) OVER(), %s
		FROM payments
		WHERE ($1 = ''
			OR booking_id ILIKE '%%' || $1 || '%%'
			OR reference ILIKE '%%' || $1 || '%%'
			OR transaction_id ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, paymentColumns, pagination.SortColumn(), pagination.SortDirection())

	rows, err := p.db.Query(ctx, query, pagination.Term, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	payments := []domain.Payment{}

	for rows.Next() {
		var payment domain.Payment

		err := rows.Scan(append([]any{&totalRecords}, paymentFields(&payment)...)...)
		if err != nil {
			return nil, nil, err
		}

		payments = append(payments, payment)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return payments, metadata, nil
}

func paymentFields(payment *domain.Payment) []any {
	return []any{
		&payment.ID,
		&payment.BookingID,
		&payment.UserID,
		&payment.Method,
		&payment.Amount,
		&payment.Reference,
		&payment.TransactionID,
		&payment.QRImageURL,
		&payment.PaymentURL,
		&payment.Status,
		&payment.PaymentDate,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	}
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment

	err := row.Scan(paymentFields(&payment)...)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
