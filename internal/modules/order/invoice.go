package order

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/codes"

	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/mail"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// Buyers resolves the invoice recipient.
type Buyers interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// InvoiceMailHandler mails the invoice of an order.placed event. A failed
// delivery is logged with the order id; the order itself stays committed.
func InvoiceMailHandler(buyers Buyers, sender mail.Sender) events.Handler {
	return func(ctx context.Context, ev events.Event) error {
		placed, ok := ev.(events.OrderPlaced)
		if !ok {
			return nil
		}
		ctx, span := tracer.Start(ctx, "order.SendInvoice")
		defer span.End()

		err := sendInvoice(ctx, buyers, sender, placed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invoice not delivered")
			log.Printf("[checkout] invoice for order %s not delivered: %v", placed.OrderID, err)
		}
		return err
	}
}

func sendInvoice(ctx context.Context, buyers Buyers, sender mail.Sender, o events.OrderPlaced) error {
	buyer, err := buyers.GetUserByID(ctx, o.BuyerID)
	if err != nil {
		return fmt.Errorf("lookup buyer %s: %w", o.BuyerID, err)
	}
	subject := fmt.Sprintf("Invoice for order %s", o.OrderID)
	return sender.Send(ctx, buyer.Email, subject, InvoiceBody(buyer.Username, o))
}

// InvoiceBody renders the plain-text invoice.
func InvoiceBody(username string, o events.OrderPlaced) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order.\n\n", username)
	fmt.Fprintf(&b, "Order: %s\nDate: %s\n\nItems:\n", o.OrderID, o.CreatedAt.Format("2006-01-02 15:04"))
	for _, l := range o.Lines {
		sub := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(&b, "  %dx %s - $%s = $%s\n", l.Quantity, l.ProductName, l.UnitPrice.StringFixed(2), sub.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", o.Total.StringFixed(2))
	return b.String()
}
