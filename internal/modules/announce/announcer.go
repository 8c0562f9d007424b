package announce

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/georgemunganga/marketplace-backend/internal/events"
)

// Description budgets, in runes.
const (
	StoreDescriptionLimit   = 180
	ProductDescriptionLimit = 120
)

const ellipsis = "..."

// Announcer turns creation events into posts.
type Announcer struct {
	pub Publisher
}

func NewAnnouncer(pub Publisher) *Announcer { return &Announcer{pub: pub} }

// Subscribe registers the announcer for store.created and product.created.
func (a *Announcer) Subscribe(d *events.Dispatcher) {
	d.Subscribe(events.StoreCreatedKey, "announce", a.Handle)
	d.Subscribe(events.ProductCreatedKey, "announce", a.Handle)
}

// Handle posts the announcement for ev. Publisher failures are logged and
// never returned.
func (a *Announcer) Handle(ctx context.Context, ev events.Event) error {
	var text, subject string
	switch e := ev.(type) {
	case events.StoreCreated:
		text, subject = StoreText(e), "store "+e.Name
	case events.ProductCreated:
		text, subject = ProductText(e), "product "+e.Name
	default:
		return nil
	}
	if err := a.pub.Publish(ctx, text); err != nil {
		log.Printf("[announce] post about %s failed: %v", subject, err)
		return nil
	}
	log.Printf("[announce] posted about %s", subject)
	return nil
}

// StoreText renders the announcement of a new store.
func StoreText(e events.StoreCreated) string {
	var b strings.Builder
	b.WriteString("New Store: " + e.Name + "\n")
	if d := strings.TrimSpace(e.Description); d != "" {
		b.WriteString(Truncate(d, StoreDescriptionLimit) + "\n")
	}
	b.WriteString("#eCommerce #NewStore")
	return b.String()
}

// ProductText renders the announcement of a new product.
func ProductText(e events.ProductCreated) string {
	var b strings.Builder
	b.WriteString("New Product!\n")
	b.WriteString(e.StoreName + "\n")
	b.WriteString(e.Name + "\n")
	if d := strings.TrimSpace(e.Description); d != "" {
		b.WriteString(Truncate(d, ProductDescriptionLimit) + "\n")
	}
	b.WriteString("$" + e.Price.StringFixed(2) + "\n")
	b.WriteString("#eCommerce #NewProduct")
	return b.String()
}

// Truncate cuts s to limit runes and marks the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + ellipsis
}
