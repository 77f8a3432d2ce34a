package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/retail-pos-platform/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ReceiptSender emails a receipt for a completed sale. Sending is best-effort:
// the checkout flow logs failures and never ties the sale's fate to them.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, to string, sale *models.SaleRecord) error
	GetSendGridClient() *sendgrid.Client
}

type receiptService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	sanitizer *bluemonday.Policy
}

func NewReceiptService(apiKey string, fromEmail string, fromName string) ReceiptSender {
	return &receiptService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (e *receiptService) GetSendGridClient() *sendgrid.Client {
	return e.client
}

// SendReceipt implements ReceiptSender.
func (e *receiptService) SendReceipt(ctx context.Context, to string, sale *models.SaleRecord) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(recipient)
	personalization.Subject = fmt.Sprintf("Your receipt for sale %s", sale.TransactionID)
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", e.plainBody(sale)))
	message.AddContent(mail.NewContent("text/html", e.htmlBody(sale)))

	response, err := e.client.SendWithContext(ctx, message)

	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send receipt, status code: %d", response.StatusCode)
	}

	return nil
}

func (e *receiptService) plainBody(sale *models.SaleRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sale %s\n\n", sale.TransactionID)

	for _, line := range sale.Lines {
		fmt.Fprintf(&b, "%d x %s @ %s = %s\n", line.Quantity, line.Name, line.UnitPrice.StringFixed(2), line.LineTotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\nTax: %s\nTotal: %s\n", sale.Subtotal.StringFixed(2), sale.TaxAmount.StringFixed(2), sale.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Paid by %s\n", sale.PaymentMethod)

	if sale.CashReceived != nil && sale.ChangeGiven != nil {
		fmt.Fprintf(&b, "Cash received: %s\nChange: %s\n", sale.CashReceived.StringFixed(2), sale.ChangeGiven.StringFixed(2))
	}

	return b.String()
}

// Product names are operator-entered upstream, so they get sanitized before
// being interpolated into markup.
func (e *receiptService) htmlBody(sale *models.SaleRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Sale %s</h2><table>", sale.TransactionID)

	for _, line := range sale.Lines {
		fmt.Fprintf(&b, "<tr><td>%d × %s</td><td>%s</td></tr>",
			line.Quantity, e.sanitizer.Sanitize(line.Name), line.LineTotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "<tr><td>Subtotal</td><td>%s</td></tr>", sale.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "<tr><td>Tax</td><td>%s</td></tr>", sale.TaxAmount.StringFixed(2))
	fmt.Fprintf(&b, "<tr><td><strong>Total</strong></td><td><strong>%s</strong></td></tr>", sale.TotalAmount.StringFixed(2))
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Paid by %s</p>", sale.PaymentMethod)

	if sale.CashReceived != nil && sale.ChangeGiven != nil {
		fmt.Fprintf(&b, "<p>Cash received: %s, change: %s</p>", sale.CashReceived.StringFixed(2), sale.ChangeGiven.StringFixed(2))
	}

	return b.String()
}
