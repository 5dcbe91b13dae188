package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/desirekokuvi/bablit/pkg/resilience"
)

// TwilioSender delivers SMS through the Twilio REST API, guarded by a
// circuit breaker so a degraded carrier cannot pile up webhook latency.
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
	breaker    *resilience.CircuitBreaker
}

// NewTwilioSender creates a Twilio-backed SMS sender.
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSender{
		client:     client,
		fromNumber: fromNumber,
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultSettings("twilio-sms")),
	}
}

// Send delivers an SMS to the given number.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	_, err := s.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		params := &twilioapi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(s.fromNumber)
		params.SetBody(body)

		return s.client.Api.CreateMessage(params)
	})
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}
