package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/cart"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

var tracer = otel.Tracer("github.com/georgemunganga/marketplace-backend/internal/modules/order")

// Service defines the checkout and order history business logic.
type Service interface {
	// Checkout turns the cart into an order, decrementing stock atomically.
	// Either every line is applied or none is.
	Checkout(ctx context.Context, p *auth.Principal, c cart.Cart) (*Order, error)

	// CheckoutItems is Checkout for an explicit list of lines. Lines naming
	// the same product are summed first.
	CheckoutItems(ctx context.Context, p *auth.Principal, items []CheckoutItem) (*Order, error)

	// GetOrder returns one of the principal's own orders.
	GetOrder(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Order, error)

	// ListOrders returns the principal's orders, newest first.
	ListOrders(ctx context.Context, p *auth.Principal) ([]*Order, error)
}

type service struct {
	repo   Repository
	events events.Publisher
}

// NewService creates a new order service.
func NewService(repo Repository, pub events.Publisher) Service {
	return &service{repo: repo, events: pub}
}

func (s *service) CheckoutItems(ctx context.Context, p *auth.Principal, items []CheckoutItem) (*Order, error) {
	c := cart.Cart{}
	for _, it := range items {
		if !ValidQuantity(it.Quantity) {
			return nil, ErrInvalidQuantity
		}
		c.Add(it.ProductID, it.Quantity)
	}
	return s.Checkout(ctx, p, c)
}

func (s *service) Checkout(ctx context.Context, p *auth.Principal, c cart.Cart) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.Checkout")
	defer span.End()

	if err := auth.RequireRole(p, user.RoleBuyer); err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	// Lines are sorted by product id so concurrent checkouts lock rows in
	// the same order.
	lines := c.Lines()
	for _, l := range lines {
		if !ValidQuantity(l.Quantity) {
			return nil, ErrInvalidQuantity
		}
	}
	span.SetAttributes(
		attribute.String("buyer.id", p.UserID.String()),
		attribute.Int("order.lines", len(lines)),
	)

	o := &Order{
		ID:      uuid.New(),
		BuyerID: p.UserID,
		Items:   make([]*OrderItem, 0, len(lines)),
	}
	err := s.repo.InTx(ctx, func(tx Tx) error {
		total := decimal.Zero
		o.Items = o.Items[:0]
		for _, l := range lines {
			reserved, err := tx.ReserveStock(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			item := &OrderItem{
				ID:          uuid.New(),
				OrderID:     o.ID,
				ProductID:   l.ProductID,
				ProductName: reserved.Name,
				Quantity:    l.Quantity,
				Price:       reserved.Price,
			}
			total = total.Add(item.Subtotal())
			o.Items = append(o.Items, item)
		}
		o.TotalPrice = total
		return tx.InsertOrder(ctx, o)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", o.ID.String()))

	s.events.Publish(ctx, placedEvent(o))
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, p *auth.Principal, id uuid.UUID) (*Order, error) {
	if err := auth.RequireRole(p, user.RoleBuyer); err != nil {
		return nil, err
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(p, o.BuyerID, ErrNotFound); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, p *auth.Principal) ([]*Order, error) {
	if err := auth.RequireRole(p, user.RoleBuyer); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListOrdersByBuyer(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func placedEvent(o *Order) events.OrderPlaced {
	ev := events.OrderPlaced{
		OrderID:   o.ID,
		BuyerID:   o.BuyerID,
		Total:     o.TotalPrice,
		Lines:     make([]events.OrderLine, len(o.Items)),
		CreatedAt: o.CreatedAt,
	}
	for i, item := range o.Items {
		ev.Lines[i] = events.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
		}
	}
	return ev
}
