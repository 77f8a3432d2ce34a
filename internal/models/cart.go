package models

import (
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product-quantity pairing in an open sale. UnitPrice is
// snapshotted when the line is first added, so a catalog price change never
// retroactively alters an open cart.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the line items of one in-progress sale. It is single-owner,
// single-writer state: the owning checkout session serializes all access.
// Mutations report stock-ceiling violations as errors instead of clamping;
// the cart is left untouched on any rejected mutation.
//
// Invariants: at most one line per product id, every line has
// 1 <= Quantity <= stock ceiling as of its last successful mutation, and
// Lines keeps insertion order for display.
type Cart struct {
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart() *Cart {
	now := time.Now()

	return &Cart{Lines: []CartLine{}, CreatedAt: now, UpdatedAt: now}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}

	return -1
}

// AddItem merges one unit of the product into the cart: an existing line is
// incremented, otherwise a new line with quantity 1 is appended. The mutation
// is rejected with STOCK_EXCEEDED when the resulting quantity would pass the
// product's stock ceiling (including a ceiling of zero).
func (c *Cart) AddItem(product *Product) error {
	if i := c.lineIndex(product.ID); i >= 0 {
		if c.Lines[i].Quantity+1 > product.StockQuantity {
			return errors.StockExceededError(fmt.Sprintf("Only %d unit(s) of %q in stock", product.StockQuantity, product.Name))
		}

		c.Lines[i].Quantity++
		c.UpdatedAt = time.Now()

		return nil
	}

	if product.StockQuantity < 1 {
		return errors.StockExceededError(fmt.Sprintf("%q is out of stock", product.Name))
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
	})
	c.UpdatedAt = time.Now()

	return nil
}

// SetQuantity replaces the quantity of an existing line. Zero or negative
// quantities remove the line, matching the remove semantics of the UI.
func (c *Cart) SetQuantity(product *Product, quantity int) error {
	i := c.lineIndex(product.ID)
	if i < 0 {
		return errors.NotFoundError("Item not in cart")
	}

	if quantity <= 0 {
		c.RemoveItem(product.ID)

		return nil
	}

	if quantity > product.StockQuantity {
		return errors.StockExceededError(fmt.Sprintf("Only %d unit(s) of %q in stock", product.StockQuantity, product.Name))
	}

	c.Lines[i].Quantity = quantity
	c.UpdatedAt = time.Now()

	return nil
}

// RemoveItem deletes the line for the product. No-op when absent.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	i := c.lineIndex(productID)
	if i < 0 {
		return
	}

	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.UpdatedAt = time.Now()
}

// Clear empties all lines unconditionally.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.UpdatedAt = time.Now()
}

type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Totals is pure: it never mutates the cart and an empty cart yields all
// zeroes. Tax is rounded to minor-unit precision exactly once, so displayed
// and persisted figures always agree.
func (c *Cart) Totals(taxRate decimal.Decimal) CartTotals {
	subtotal := decimal.Zero

	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return CartTotals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal.Add(tax),
	}
}

// SnapshotLines returns a copy of the lines that later cart mutations cannot
// alter. The checkout controller freezes one of these when payment opens.
func (c *Cart) SnapshotLines() []CartLine {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)

	return lines
}

type CartView struct {
	Lines     []CartLine      `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total_amount"`
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"gte=0"`
}
