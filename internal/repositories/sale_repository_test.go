package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	repository "github.com/aaravmahajanofficial/retail-pos-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertSaleQuery  = `INSERT INTO sales (transaction_id, idempotency_key, terminal_id, cashier_id, subtotal, tax_amount, total_amount, payment_method, cash_received, change_given, payment_status, currency, created_at)`
	insertLineQuery  = `INSERT INTO sale_items (transaction_id, product_id, name, unit_price, quantity, line_total)`
	selectSaleQuery  = `SELECT transaction_id, idempotency_key, terminal_id, cashier_id, subtotal, tax_amount, total_amount, payment_method, cash_received, change_given, payment_status, currency, created_at FROM sales`
	selectLinesQuery = `SELECT product_id, name, unit_price, quantity, line_total FROM sale_items`
)

var saleColumns = []string{
	"transaction_id", "idempotency_key", "terminal_id", "cashier_id",
	"subtotal", "tax_amount", "total_amount", "payment_method",
	"cash_received", "change_given", "payment_status", "currency", "created_at",
}

var lineColumns = []string{"product_id", "name", "unit_price", "quantity", "line_total"}

func testSale() *models.SaleRecord {
	cash := decimal.RequireFromString("30.00")
	change := decimal.RequireFromString("3.00")

	return &models.SaleRecord{
		TransactionID:  uuid.New(),
		IdempotencyKey: uuid.New(),
		TerminalID:     "terminal-7",
		CashierID:      uuid.New(),
		Lines: []models.SaleLine{
			{ProductID: uuid.New(), Name: "A", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2, LineTotal: decimal.RequireFromString("20.00")},
			{ProductID: uuid.New(), Name: "B", UnitPrice: decimal.RequireFromString("5.00"), Quantity: 1, LineTotal: decimal.RequireFromString("5.00")},
		},
		Subtotal:      decimal.RequireFromString("25.00"),
		TaxAmount:     decimal.RequireFromString("2.00"),
		TotalAmount:   decimal.RequireFromString("27.00"),
		PaymentMethod: models.PaymentMethodCash,
		CashReceived:  &cash,
		ChangeGiven:   &change,
		Status:        models.PaymentStatusCompleted,
		Currency:      "usd",
		CreatedAt:     time.Now(),
	}
}

func TestCreateSale(t *testing.T) {
	t.Run("Success - Header And Lines Committed", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := repository.NewSaleRepo(db)
		sale := testSale()

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(insertSaleQuery)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(insertLineQuery)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(insertLineQuery)).
			WillReturnResult(sqlmock.NewResult(2, 1))
		dbMock.ExpectCommit()

		// Act
		result, err := repo.CreateSale(context.Background(), sale)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, sale, result)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Idempotency Conflict Resolves To The Persisted Sale", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := repository.NewSaleRepo(db)
		sale := testSale()

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(insertSaleQuery)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectRollback()

		// the retry finds the sale the earlier attempt committed
		earlierID := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(selectSaleQuery)).
			WithArgs(sale.IdempotencyKey).
			WillReturnRows(sqlmock.NewRows(saleColumns).AddRow(
				earlierID, sale.IdempotencyKey, sale.TerminalID, sale.CashierID,
				"25.00", "2.00", "27.00", "cash",
				"30.00", "3.00", "completed", "usd", sale.CreatedAt))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectLinesQuery)).
			WithArgs(earlierID).
			WillReturnRows(sqlmock.NewRows(lineColumns).
				AddRow(sale.Lines[0].ProductID, "A", "10.00", 2, "20.00"))

		// Act
		result, err := repo.CreateSale(context.Background(), sale)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, earlierID, result.TransactionID)
		assert.NotEqual(t, sale.TransactionID, result.TransactionID)
		assert.Equal(t, sale.IdempotencyKey, result.IdempotencyKey)
		assert.Equal(t, "27.00", result.TotalAmount.StringFixed(2))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Header Insert Error Rolls Back", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := repository.NewSaleRepo(db)

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(insertSaleQuery)).
			WillReturnError(errors.New("connection reset"))
		dbMock.ExpectRollback()

		result, err := repo.CreateSale(context.Background(), testSale())

		assert.Nil(t, result)
		require.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Line Insert Error Rolls Back", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := repository.NewSaleRepo(db)

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(insertSaleQuery)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(insertLineQuery)).
			WillReturnError(errors.New("connection reset"))
		dbMock.ExpectRollback()

		result, err := repo.CreateSale(context.Background(), testSale())

		assert.Nil(t, result)
		require.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestGetSaleByTransactionID(t *testing.T) {
	t.Run("Success - Card Sale Without Cash Fields", func(t *testing.T) {
		// Arrange
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := repository.NewSaleRepo(db)
		transactionID := uuid.New()
		idemKey := uuid.New()
		cashierID := uuid.New()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectSaleQuery)).
			WithArgs(transactionID).
			WillReturnRows(sqlmock.NewRows(saleColumns).AddRow(
				transactionID, idemKey, "terminal-7", cashierID,
				"25.00", "2.00", "27.00", "card",
				nil, nil, "completed", "usd", time.Now()))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectLinesQuery)).
			WithArgs(transactionID).
			WillReturnRows(sqlmock.NewRows(lineColumns).
				AddRow(uuid.New(), "A", "10.00", 2, "20.00").
				AddRow(uuid.New(), "B", "5.00", 1, "5.00"))

		// Act
		sale, err := repo.GetSaleByTransactionID(context.Background(), transactionID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, transactionID, sale.TransactionID)
		assert.Equal(t, models.PaymentMethodCard, sale.PaymentMethod)
		assert.Nil(t, sale.CashReceived)
		assert.Nil(t, sale.ChangeGiven)
		require.Len(t, sale.Lines, 2)
		assert.Equal(t, "20.00", sale.Lines[0].LineTotal.StringFixed(2))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := repository.NewSaleRepo(db)
		transactionID := uuid.New()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectSaleQuery)).
			WithArgs(transactionID).
			WillReturnError(errors.New("sql: no rows in result set"))

		sale, err := repo.GetSaleByTransactionID(context.Background(), transactionID)

		assert.Nil(t, sale)
		require.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
