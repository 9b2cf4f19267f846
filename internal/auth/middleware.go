// ABOUTME: Operator identity middleware for shop staff requests.
// ABOUTME: Resolves who is acting from a header, bearer token, or cookie and stores it in the request context.

package auth

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"
)

type contextKey string

const operatorContextKey contextKey = "operator"

// OperatorHeader carries the acting operator, and is forwarded by pages to the API.
const OperatorHeader = "X-Operator"

// OperatorCookie remembers the operator between page loads.
const OperatorCookie = "operator"

// DefaultOperator is used when a request names nobody.
const DefaultOperator = "front-desk"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := extractOperator(r)
		ctx := WithOperator(r.Context(), operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithOperator returns ctx carrying operator.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorContextKey, operator)
}

func OperatorFromContext(ctx context.Context) string {
	operator, ok := ctx.Value(operatorContextKey).(string)
	if !ok || operator == "" {
		return DefaultOperator
	}
	return operator
}

func extractOperator(r *http.Request) string {
	if op := cleanName(r.Header.Get(OperatorHeader)); op != "" {
		return op
	}

	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		// "operator:<name>" names the operator explicitly
		if strings.HasPrefix(token, "operator:") {
			if op := cleanName(strings.TrimPrefix(token, "operator:")); op != "" {
				return op
			}
		}
	}

	if c, err := r.Cookie(OperatorCookie); err == nil {
		if op := cleanName(c.Value); op != "" {
			return op
		}
	}
	return DefaultOperator
}

const maxNameBytes = 64

// cleanName trims an operator name and caps it at 64 bytes without splitting a rune.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxNameBytes {
		n := maxNameBytes
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	return s
}
