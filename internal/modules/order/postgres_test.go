package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/cart"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// openTestDB connects to DATABASE_URL and migrates it, skipping without one.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedUser inserts a user and removes it, with everything that cascades from
// it, when the test ends.
func seedUser(t *testing.T, db *sql.DB, role user.Role) *auth.Principal {
	t.Helper()
	id := uuid.New()
	name := "u" + id.String()[:8]
	_, err := db.Exec(`INSERT INTO users (id, username, email, password_hash, role) VALUES ($1, $2, $3, 'x', $4)`,
		id, name, name+"@example.com", string(role))
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, id) })
	return &auth.Principal{UserID: id, Username: name, Role: role}
}

func seedProduct(t *testing.T, db *sql.DB, vendor *auth.Principal, name, price string, stock int) uuid.UUID {
	t.Helper()
	storeID, productID := uuid.New(), uuid.New()
	if _, err := db.Exec(`INSERT INTO stores (id, vendor_id, name) VALUES ($1, $2, 'Shop')`, storeID, vendor.UserID); err != nil {
		t.Fatalf("insert store: %v", err)
	}
	_, err := db.Exec(`INSERT INTO products (id, store_id, name, price, stock) VALUES ($1, $2, $3, $4, $5)`,
		productID, storeID, name, decimal.RequireFromString(price), stock)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return productID
}

func stockOf(t *testing.T, db *sql.DB, id uuid.UUID) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT stock FROM products WHERE id = $1`, id).Scan(&n); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return n
}

func TestPostgresConcurrentCheckoutsNeverOversell(t *testing.T) {
	db := openTestDB(t)
	vendor := seedUser(t, db, user.RoleVendor)
	lamp := seedProduct(t, db, vendor, "Lamp", "40.00", 10)
	svc := NewService(NewPostgresRepository(db), &recorder{})

	const buyers = 8
	principals := make([]*auth.Principal, buyers)
	for i := range principals {
		principals[i] = seedUser(t, db, user.RoleBuyer)
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i, p := range principals {
		wg.Add(1)
		go func(i int, p *auth.Principal) {
			defer wg.Done()
			_, errs[i] = svc.Checkout(context.Background(), p, cart.Cart{lamp: 3})
		}(i, p)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		var short *InsufficientStockError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &short):
			if short.Requested != 3 || short.Available >= 3 {
				t.Errorf("shortage = %+v", short)
			}
		default:
			t.Errorf("unexpected checkout error: %v", err)
		}
	}
	if succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", succeeded)
	}
	if got := stockOf(t, db, lamp); got != 1 {
		t.Fatalf("stock = %d, want 1", got)
	}
}

func TestPostgresCheckoutRollsBackEveryLine(t *testing.T) {
	db := openTestDB(t)
	vendor := seedUser(t, db, user.RoleVendor)
	buyer := seedUser(t, db, user.RoleBuyer)
	mug := seedProduct(t, db, vendor, "Mug", "10.00", 5)
	pen := seedProduct(t, db, vendor, "Pen", "2.50", 1)
	repo := NewPostgresRepository(db)
	svc := NewService(repo, &recorder{})
	ctx := context.Background()

	_, err := svc.Checkout(ctx, buyer, cart.Cart{mug: 2, pen: 2})
	var short *InsufficientStockError
	if !errors.As(err, &short) || short.ProductID != pen || short.Available != 1 {
		t.Fatalf("err = %v, want shortage on pen", err)
	}
	if stockOf(t, db, mug) != 5 || stockOf(t, db, pen) != 1 {
		t.Fatal("failed checkout changed stock")
	}

	o, err := svc.Checkout(ctx, buyer, cart.Cart{mug: 2, pen: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !o.TotalPrice.Equal(decimal.RequireFromString("22.50")) {
		t.Fatalf("total = %s, want 22.50", o.TotalPrice)
	}
	stored, err := repo.GetOrderByID(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Items) != 2 || !stored.TotalPrice.Equal(o.TotalPrice) {
		t.Fatalf("stored order = %+v", stored)
	}
	if got := fmt.Sprint(stockOf(t, db, mug), stockOf(t, db, pen)); got != "3 0" {
		t.Fatalf("stock after checkout = %s, want 3 0", got)
	}
}
