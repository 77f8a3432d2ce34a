package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository is the durability boundary of the checkout flow: nothing is
// considered sold until CreateSale has committed.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale *models.SaleRecord) (*models.SaleRecord, error)
	GetSaleByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.SaleRecord, error)
	GetSaleByIdempotencyKey(ctx context.Context, key uuid.UUID) (*models.SaleRecord, error)
}

type saleRepository struct {
	DB *sql.DB
}

func NewSaleRepo(db *sql.DB) SaleRepository {
	return &saleRepository{DB: db}
}

// CreateSale inserts the sale header and its lines in one transaction. The
// sales table has a unique index on idempotency_key and the header insert is
// ON CONFLICT DO NOTHING, so a finalize retry whose earlier attempt actually
// committed resolves to that persisted sale instead of creating a duplicate.
func (r *saleRepository) CreateSale(ctx context.Context, sale *models.SaleRecord) (*models.SaleRecord, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning sale transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // no-op after commit

	headerQuery := `
		INSERT INTO sales (transaction_id, idempotency_key, terminal_id, cashier_id, subtotal, tax_amount, total_amount, payment_method, cash_received, change_given, payment_status, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (idempotency_key) DO NOTHING
	`

	res, err := tx.ExecContext(dbCtx, headerQuery,
		sale.TransactionID, sale.IdempotencyKey, sale.TerminalID, sale.CashierID,
		sale.Subtotal, sale.TaxAmount, sale.TotalAmount, sale.PaymentMethod,
		nullDecimal(sale.CashReceived), nullDecimal(sale.ChangeGiven),
		sale.Status, sale.Currency, sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting sale header: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading insert result: %w", err)
	}

	if rows == 0 {
		// An earlier attempt with this key already committed.
		if err := tx.Rollback(); err != nil {
			return nil, fmt.Errorf("rolling back duplicate sale: %w", err)
		}

		return r.GetSaleByIdempotencyKey(ctx, sale.IdempotencyKey)
	}

	lineQuery := `
		INSERT INTO sale_items (transaction_id, product_id, name, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, line := range sale.Lines {
		if _, err := tx.ExecContext(dbCtx, lineQuery, sale.TransactionID, line.ProductID, line.Name, line.UnitPrice, line.Quantity, line.LineTotal); err != nil {
			return nil, fmt.Errorf("inserting sale line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale: %w", err)
	}

	return sale, nil
}

func (r *saleRepository) GetSaleByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.SaleRecord, error) {
	return r.getSale(ctx, "transaction_id", transactionID)
}

func (r *saleRepository) GetSaleByIdempotencyKey(ctx context.Context, key uuid.UUID) (*models.SaleRecord, error) {
	return r.getSale(ctx, "idempotency_key", key)
}

func (r *saleRepository) getSale(ctx context.Context, column string, id uuid.UUID) (*models.SaleRecord, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	headerQuery := fmt.Sprintf(`
		SELECT transaction_id, idempotency_key, terminal_id, cashier_id, subtotal, tax_amount, total_amount, payment_method, cash_received, change_given, payment_status, currency, created_at
		FROM sales
		WHERE %s = $1`, column)

	sale := &models.SaleRecord{}

	var cashReceived, changeGiven decimal.NullDecimal

	err := r.DB.QueryRowContext(dbCtx, headerQuery, id).Scan(
		&sale.TransactionID, &sale.IdempotencyKey, &sale.TerminalID, &sale.CashierID,
		&sale.Subtotal, &sale.TaxAmount, &sale.TotalAmount, &sale.PaymentMethod,
		&cashReceived, &changeGiven, &sale.Status, &sale.Currency, &sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if cashReceived.Valid {
		sale.CashReceived = &cashReceived.Decimal
	}

	if changeGiven.Valid {
		sale.ChangeGiven = &changeGiven.Decimal
	}

	linesQuery := `
		SELECT product_id, name, unit_price, quantity, line_total
		FROM sale_items
		WHERE transaction_id = $1
		ORDER BY id`

	rows, err := r.DB.QueryContext(dbCtx, linesQuery, sale.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("querying sale lines: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var line models.SaleLine

		if err := rows.Scan(&line.ProductID, &line.Name, &line.UnitPrice, &line.Quantity, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("scanning sale line: %w", err)
		}

		sale.Lines = append(sale.Lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sale lines: %w", err)
	}

	return sale, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
