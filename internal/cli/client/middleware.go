package client

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/inventario-app/inventario/internal/session"
)

// Middleware wraps a transport with cross-cutting behavior
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base with layers so that layers[0] sees the request first
func Chain(base http.RoundTripper, layers ...Middleware) http.RoundTripper {
	rt := base
	for i := len(layers) - 1; i >= 0; i-- {
		rt = layers[i](rt)
	}
	return rt
}

// withoutUnauthorizedPolicy marks a request whose 401 is an ordinary answer,
// such as a rejected login
func withoutUnauthorizedPolicy(ctx context.Context) context.Context {
	return session.WithoutExpiry(ctx)
}

func skipsUnauthorizedPolicy(ctx context.Context) bool {
	return session.ExpiryExempt(ctx)
}

// BearerAuth sets "Authorization: Bearer <token>" when token() is non-empty
func BearerAuth(token func() string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			t := token()
			if t == "" {
				if req.Header.Get("Authorization") == "" {
					return next.RoundTrip(req)
				}
				req = req.Clone(req.Context())
				req.Header.Del("Authorization")
				return next.RoundTrip(req)
			}

			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+t)
			return next.RoundTrip(req)
		})
	}
}

// Unauthorized calls handler once for each 401 response
func Unauthorized(handler func()) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				return resp, err
			}
			if resp.StatusCode == http.StatusUnauthorized && !skipsUnauthorizedPolicy(req.Context()) {
				handler()
			}
			return resp, nil
		})
	}
}

// RequestLogger logs method, path, status and duration of every call
func RequestLogger(log zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			var event *zerolog.Event
			if err != nil {
				event = log.Warn().Err(err)
			} else {
				event = log.Debug().Int("status", resp.StatusCode)
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")

			return resp, err
		})
	}
}
