package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert review: %w", &pq.Error{Code: "23505", Constraint: "reviews_product_id_buyer_id_key"})
	if !IsUniqueViolation(dup) {
		t.Fatal("wrapped 23505 not detected")
	}
	if got := ConstraintName(dup); got != "reviews_product_id_buyer_id_key" {
		t.Fatalf("ConstraintName = %q", got)
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("foreign key violation reported as unique")
	}
	if IsUniqueViolation(errors.New("duplicate key")) {
		t.Fatal("plain error reported as unique violation")
	}
}

func TestSchemaDeclaresCascades(t *testing.T) {
	for _, table := range []string{"stores", "products", "orders", "order_items", "reviews", "reset_tokens"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("schema is missing table %s", table)
		}
	}
	if strings.Count(schema, "ON DELETE CASCADE") < 8 {
		t.Error("expected every parent reference to cascade")
	}
}

// TestMigrate runs against a real database when DATABASE_URL is set.
func TestMigrate(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("Migrate pass %d: %v", i+1, err)
		}
	}
}
