package relay

import "fmt"

// ValidationError — сообщение нельзя переслать (нет поддерживаемого контента).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("relay: validation: %s", e.Reason)
}

// SizeLimitError — вложение превышает лимит Bot API для своего типа.
type SizeLimitError struct {
	Kind     Kind
	LimitMiB int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("relay: %s exceeds %dMB limit", e.Kind, e.LimitMiB)
}

// TransportError — Telegram отверг или не принял отправку.
type TransportError struct {
	Kind Kind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay: send %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RoutingError — не удалось определить адресата пересылки.
type RoutingError struct {
	Reason string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("relay: routing: %s", e.Reason)
}
