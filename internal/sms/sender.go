package sms

import "context"

// Sender delivers an SMS to a phone number. Implementations decide the
// originating number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}
