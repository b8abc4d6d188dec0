// Package cart reports how many items the visitor has in their cart.
//
// The count is shown in the navbar. The cart itself belongs to the main
// application; the landing page only reads the cookie it maintains.
package cart

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxDisplayed caps the count read from the cookie.
const MaxDisplayed = 99

// Counter returns the number of items in the visitor's cart.
type Counter interface {
	Count(r *http.Request) int
}

// None reports an empty cart for every request.
type None struct{}

func (None) Count(*http.Request) int { return 0 }

// CookieCounter reads the count from a cookie holding a decimal integer.
// Missing, malformed or negative values count as zero.
type CookieCounter struct {
	Name string
}

func (c CookieCounter) Count(r *http.Request) int {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(ck.Value))
	if err != nil || n < 0 {
		return 0
	}
	return min(n, MaxDisplayed)
}

// CounterFunc adapts a function to Counter.
type CounterFunc func(r *http.Request) int

func (f CounterFunc) Count(r *http.Request) int { return f(r) }
