package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Attempt records one failed authentication method during resolution.
type Attempt struct {
	Method string
	Err    error
}

// ConnectionError reports that every configured authentication method
// failed its liveness probe. Attempts lists the failures in the order
// the methods were tried.
type ConnectionError struct {
	Attempts []Attempt
}

func (e *ConnectionError) Error() string {
	var b strings.Builder
	b.WriteString("all connection methods failed")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %v", a.Method, a.Err)
	}
	return b.String()
}

// OpenFunc opens a verified connection from a descriptor. It is the
// seam the resolver uses for all connection attempts; tests replace it
// to avoid real I/O.
type OpenFunc func(dsn string, timeoutSeconds int) (*gorm.DB, error)

// Resolver finds the first live authentication method in a connection
// profile. Each candidate is probed with an open-then-close liveness
// check before the resolver commits to it.
type Resolver struct {
	logger *zap.Logger
	open   OpenFunc
}

// NewResolver creates a resolver using the standard Open function.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger, open: Open}
}

// NewResolverWithOpen creates a resolver with a custom open function.
func NewResolverWithOpen(logger *zap.Logger, open OpenFunc) *Resolver {
	return &Resolver{logger: logger, open: open}
}

// Resolve iterates the profile's methods in precedence order, probes
// each one, and returns a fresh connection built from the first
// descriptor that passes the probe, along with the method name that
// succeeded. The probe handle is closed before the returned connection
// is opened; both use the same descriptor.
//
// One attempt per method, no retry. If every method fails, the returned
// error is a *ConnectionError listing each attempt in order.
func (r *Resolver) Resolve(ctx context.Context, cfg Config) (*gorm.DB, string, error) {
	methods, err := cfg.Methods()
	if err != nil {
		return nil, "", err
	}

	var attempts []Attempt
	for _, m := range methods {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		// Liveness probe: connect and immediately close. This avoids
		// handing the caller a descriptor that fails on first real use.
		probe, err := r.open(m.DSN, cfg.TimeoutSeconds)
		if err != nil {
			r.logger.Warn("connection method failed",
				zap.String("method", m.Name),
				zap.Error(err))
			attempts = append(attempts, Attempt{Method: m.Name, Err: err})
			continue
		}
		if err := Close(probe); err != nil {
			r.logger.Warn("closing probe connection failed",
				zap.String("method", m.Name),
				zap.Error(err))
		}

		conn, err := r.open(m.DSN, cfg.TimeoutSeconds)
		if err != nil {
			// The descriptor passed its probe moments ago; treat a
			// failure here like any other method failure and move on.
			attempts = append(attempts, Attempt{Method: m.Name, Err: err})
			continue
		}

		r.logger.Info("connection method succeeded",
			zap.String("method", m.Name),
			zap.Int("failed_attempts", len(attempts)))
		return conn, m.Name, nil
	}

	return nil, "", &ConnectionError{Attempts: attempts}
}
