package cart

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

func TestCartOperations(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := Cart{}
	c.Add(a, 2)
	c.Add(a, 1)
	c.Add(b, 0)
	if c.Quantity(a) != 3 || c.Len() != 1 {
		t.Fatalf("cart = %v", c)
	}
	c.Set(b, 4)
	if c.Total() != 7 {
		t.Fatalf("total = %d", c.Total())
	}
	c.Set(a, 0)
	c.Remove(b)
	if !c.IsEmpty() {
		t.Fatalf("cart not empty: %v", c)
	}
}

func TestLinesSorted(t *testing.T) {
	c := Cart{}
	for i := 0; i < 10; i++ {
		c.Add(uuid.New(), i+1)
	}
	lines := c.Lines()
	for i := 1; i < len(lines); i++ {
		if lines[i-1].ProductID.String() >= lines[i].ProductID.String() {
			t.Fatalf("lines not sorted at %d", i)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := sessions.NewCookieStore([]byte("cart-test-secret"))
	a := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s, _ := store.Get(req, "marketplace")
	c := FromSession(s)
	c.Add(a, 2)
	Store(s, c)
	if err := s.Save(req, rec); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	s, err := store.Get(req, "marketplace")
	if err != nil {
		t.Fatal(err)
	}
	if got := FromSession(s); got.Quantity(a) != 2 {
		t.Fatalf("restored cart = %v", got)
	}
}
