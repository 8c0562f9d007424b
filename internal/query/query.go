// Package query parses list parameters (search, filters, ordering,
// pagination) and turns them into SQL fragments with positional arguments.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*page_size far from int overflow.
	MaxPage = 1_000_000
)

// Options describes what a resource list accepts.
type Options struct {
	// Orderings maps public field names to SQL expressions.
	Orderings map[string]string
	// DefaultOrdering is used when the request omits ordering, e.g. "-created_at".
	DefaultOrdering string
	// TieBreaker is a unique column appended to every ordering so equal
	// sort keys still page deterministically, e.g. "s.id".
	TieBreaker string
	// Filters lists the accepted exact-match filter names.
	Filters []string
}

// Params are the parsed list parameters.
type Params struct {
	Search   string
	Filters  map[string]string
	Page     int
	PageSize int

	orderExpr  string
	orderDesc  bool
	tieBreaker string
}

// Parse validates v against opts.
func Parse(v url.Values, opts Options) (Params, error) {
	p := Params{
		Search:   strings.TrimSpace(v.Get("search")),
		Filters:  map[string]string{},
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if s := v.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, apperr.Validation("page", "page must be a positive integer")
		}
		if n > MaxPage {
			return p, apperr.Validation("page", fmt.Sprintf("page must be at most %d", MaxPage))
		}
		p.Page = n
	}
	if s := v.Get("page_size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, apperr.Validation("page_size", "page_size must be a positive integer")
		}
		if n > MaxPageSize {
			n = MaxPageSize
		}
		p.PageSize = n
	}

	ordering := v.Get("ordering")
	if ordering == "" {
		ordering = opts.DefaultOrdering
	}
	if ordering != "" {
		field := strings.TrimPrefix(ordering, "-")
		expr, ok := opts.Orderings[field]
		if !ok {
			return p, apperr.Validation("ordering", fmt.Sprintf("cannot order by %q", field))
		}
		p.orderExpr = expr
		p.orderDesc = strings.HasPrefix(ordering, "-")
		p.tieBreaker = opts.TieBreaker
	}

	for _, name := range opts.Filters {
		if val := strings.TrimSpace(v.Get(name)); val != "" {
			p.Filters[name] = val
		}
	}
	return p, nil
}

// OrderBy returns an ORDER BY clause (with a leading space) or "".
func (p Params) OrderBy() string {
	if p.orderExpr == "" {
		return ""
	}
	dir := "ASC"
	if p.orderDesc {
		dir = "DESC"
	}
	if p.tieBreaker == "" || p.tieBreaker == p.orderExpr {
		return fmt.Sprintf(" ORDER BY %s %s", p.orderExpr, dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", p.orderExpr, dir, p.tieBreaker, dir)
}

func (p Params) Limit() int  { return p.PageSize }
func (p Params) Offset() int { return (p.Page - 1) * p.PageSize }

// Page is the paginated list envelope returned by the API.
type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

// NewPage wraps results, never returning a nil slice so JSON shows [].
func NewPage[T any](p Params, count int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Page: p.Page, PageSize: p.PageSize, Results: results}
}

// Where accumulates AND-ed conditions with $n placeholders.
type Where struct {
	conds []string
	args  []interface{}
}

// Arg registers v and returns its placeholder.
func (w *Where) Arg(v interface{}) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// Add appends a condition built with placeholders from Arg.
func (w *Where) Add(cond string) { w.conds = append(w.conds, cond) }

// Search adds an ILIKE match of term across columns.
func (w *Where) Search(term string, columns ...string) {
	if term == "" || len(columns) == 0 {
		return
	}
	ph := w.Arg("%" + escapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + ph
	}
	w.Add("(" + strings.Join(parts, " OR ") + ")")
}

// SQL returns the WHERE clause (with a leading space) or "".
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Args returns the accumulated arguments.
func (w *Where) Args() []interface{} { return w.args }

// Paginate appends LIMIT/OFFSET placeholders and returns the clause.
func (w *Where) Paginate(p Params) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.Arg(p.Limit()), w.Arg(p.Offset()))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
