package twilio

import (
	"context"
	"fmt"

	"github.com/Daskott/soilsense/colors"
	"github.com/Daskott/soilsense/server/logger"
	"github.com/Daskott/soilsense/shared"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var logg = logger.NewLogger()

// DeliveryError is returned when twilio rejects a message or can't be reached
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("unable to deliver message to %s: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type ClientWrapper struct {
	messages messageCreator
	config   shared.TwilioConfig
}

// NewClient returns a twilio client. In dry-run mode messages are only logged.
func NewClient(config shared.TwilioConfig) *ClientWrapper {
	client := twilio.NewRestClientWithParams(twilio.RestClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})

	return &ClientWrapper{
		messages: client.ApiV2010,
		config:   config,
	}
}

// SendMessage sends 'msg' to 'to' and returns the message SID assigned by twilio
func (cw *ClientWrapper) SendMessage(ctx context.Context, to, msg string) (string, error) {
	if cw.config.DryRun {
		logg.Infof(colors.Prefix("twilio dry-run", colors.Cyan)+"to=%v body=%q", to, msg)
		return "dry-run-" + uuid.NewString(), nil
	}

	params := &openapi.CreateMessageParams{}
	if cw.config.MessagingServiceSid != "" {
		params.SetMessagingServiceSid(cw.config.MessagingServiceSid)
	} else {
		params.SetFrom(cw.config.From)
	}
	params.SetTo(to)
	params.SetBody(msg)

	if cw.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cw.config.Timeout)
		defer cancel()
	}

	type result struct {
		resp *openapi.ApiV2010Message
		err  error
	}

	// The twilio client takes no context, so bound the call from the outside
	done := make(chan result, 1)
	go func() {
		resp, err := cw.messages.CreateMessage(params)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &DeliveryError{To: to, Err: ctx.Err()}
	case res := <-done:
		return messageSid(to, res.resp, res.err)
	}
}

func messageSid(to string, resp *openapi.ApiV2010Message, err error) (string, error) {
	if err != nil {
		return "", &DeliveryError{To: to, Err: err}
	}

	if resp == nil {
		return "", &DeliveryError{To: to, Err: errors.New("empty response from twilio")}
	}

	if resp.ErrorMessage != nil && *resp.ErrorMessage != "" {
		return "", &DeliveryError{To: to, Err: errors.New(*resp.ErrorMessage)}
	}

	if resp.Sid == nil {
		return "", &DeliveryError{To: to, Err: errors.New("twilio response has no message sid")}
	}

	return *resp.Sid, nil
}
