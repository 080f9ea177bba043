// Package mailer delivers rendered messages through an HTTP mail API, Amazon
// SES, or the process log, with a circuit breaker falling back to the log.
package mailer

import (
	"context"
	"log/slog"

	"warehouse/pkg/platform/circuit"
)

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Log writes messages to the logger instead of delivering them.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	l.logger.InfoContext(ctx, "email not delivered, logged only",
		"to", msg.To,
		"from", msg.From,
		"subject", msg.Subject,
	)
	return nil
}

// Fallback sends through primary while its breaker is closed and through
// fallback once it opens.
type Fallback struct {
	primary  Mailer
	fallback Mailer
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallback(primary, fallback Mailer, breaker *circuit.Breaker, logger *slog.Logger) *Fallback {
	return &Fallback{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (f *Fallback) Send(ctx context.Context, msg Message) error {
	if !f.breaker.Allow() {
		return f.fallback.Send(ctx, msg)
	}
	err := f.primary.Send(ctx, msg)
	if err == nil {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "mail circuit closed", "breaker", f.breaker.Name())
		}
		return nil
	}

	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "mail circuit opened", "breaker", f.breaker.Name(), "error", err)
	}
	if !useFallback {
		return err
	}
	return f.fallback.Send(ctx, msg)
}
