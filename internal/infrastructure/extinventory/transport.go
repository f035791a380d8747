// Package extinventory clientes HTTP del inventario externo (POS/ERP), uno por flavor.
// Ambos pasan por un circuit breaker que abre tras fallos consecutivos del servicio.
package extinventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

const (
	defaultTimeout       = 20 * time.Second
	maxResponseBytes     = 4 << 20
	breakerFailures      = 5
	breakerOpenTimeout   = 30 * time.Second
	breakerHalfOpenCalls = 1
)

// Options parámetros comunes de ambos clientes.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient opcional (tests).
	HTTPClient *http.Client
}

// statusError respuesta no 2xx del servicio externo.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("inventario externo HTTP %d: %s", e.status, e.body)
}

type transport struct {
	baseURL string
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newTransport(name string, opts Options, log zerolog.Logger) *transport {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerHalfOpenCalls,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= breakerFailures
		},
		// Un 4xx es un problema del lote, no del servicio: no abre el circuito.
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker del inventario externo cambió de estado")
		},
	})
	return &transport{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    client,
		breaker: breaker,
	}
}

// do ejecuta la petición a través del breaker. in y out son opcionales.
func (t *transport) do(ctx context.Context, method, path string, in, out any) error {
	_, err := t.breaker.Execute(func() (interface{}, error) {
		return nil, t.roundTrip(ctx, method, path, in, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuito abierto (%v)", domain.ErrExternalSync, err)
	}
	return err
}

func (t *transport) roundTrip(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("serializar petición: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("crear petición HTTP: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: truncate(string(raw), 300)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decodificar respuesta: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
