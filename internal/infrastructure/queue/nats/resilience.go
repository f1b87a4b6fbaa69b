package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/eixo/medical-scribe/internal/infrastructure/resilience"
)

func classifyNATSError(err error) resilience.Class {
	switch {
	case err == nil:
		return resilience.Class{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.Class{Retryable: false, RecordFailure: false}
	case resilience.IsCircuitOpen(err):
		return resilience.Class{Retryable: true, RecordFailure: true}
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrConnectionReconnecting),
		errors.Is(err, nats.ErrDisconnected):
		return resilience.Class{Retryable: true, RecordFailure: true}
	case errors.Is(err, nats.ErrMaxPayload), errors.Is(err, nats.ErrBadSubject):
		return resilience.Class{Retryable: false, RecordFailure: false}
	default:
		return resilience.Class{Retryable: false, RecordFailure: true}
	}
}
