package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

type buyerMap map[uuid.UUID]*user.User

func (b buyerMap) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := b[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type sentMail struct{ to, subject, body string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func samplePlaced(buyer uuid.UUID) events.OrderPlaced {
	return events.OrderPlaced{
		OrderID: uuid.New(),
		BuyerID: buyer,
		Total:   decimal.RequireFromString("25.50"),
		Lines: []events.OrderLine{
			{ProductID: uuid.New(), ProductName: "Mug", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: uuid.New(), ProductName: "Coaster", Quantity: 1, UnitPrice: decimal.RequireFromString("5.5")},
		},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInvoiceMailHandlerSendsToBuyer(t *testing.T) {
	buyer := &user.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	sender := &fakeSender{}
	h := InvoiceMailHandler(buyerMap{buyer.ID: buyer}, sender)

	ev := samplePlaced(buyer.ID)
	if err := h(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "bob@example.com" {
		t.Fatalf("sent = %+v", sender.sent)
	}
	body := sender.sent[0].body
	for _, want := range []string{"2x Mug - $10.00 = $20.00", "1x Coaster - $5.50 = $5.50", "Total: $25.50", ev.OrderID.String()} {
		if !strings.Contains(body, want) {
			t.Errorf("invoice missing %q:\n%s", want, body)
		}
	}
}

func TestInvoiceMailHandlerReportsFailure(t *testing.T) {
	buyer := &user.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	sender := &fakeSender{err: errors.New("smtp down")}
	h := InvoiceMailHandler(buyerMap{buyer.ID: buyer}, sender)

	if err := h(context.Background(), samplePlaced(buyer.ID)); err == nil {
		t.Fatal("delivery failure was not reported")
	}
	if err := h(context.Background(), events.StoreCreated{}); err != nil {
		t.Fatalf("unrelated event: %v", err)
	}
}
