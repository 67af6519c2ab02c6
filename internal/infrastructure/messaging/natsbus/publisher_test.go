package natsbus_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/messaging/natsbus"
)

type fakeConn struct {
	publishFn func(subject string, data []byte) error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	return f.publishFn(subject, data)
}

func TestPublisher_ShouldPublishJSONOnTypedSubject(t *testing.T) {
	var subject string
	var body map[string]any

	pub := &natsbus.Publisher{
		Conn: &fakeConn{publishFn: func(s string, data []byte) error {
			subject = s
			return json.Unmarshal(data, &body)
		}},
		Prefix: "test",
	}

	err := pub.Publish(event.Event{
		Type: event.ConversionTracked,
		Payload: event.ConversionPayload{
			EventName: "Purchase",
			Value:     decimal.RequireFromString("4.90"),
			Currency:  "BRL",
		},
	})

	require.NoError(t, err)
	require.Equal(t, "test.conversion_tracked", subject)
	require.Equal(t, "CONVERSION_TRACKED", body["type"])
	payload := body["payload"].(map[string]any)
	require.Equal(t, "4.9", payload["value"])
	require.Equal(t, "BRL", payload["currency"])
}

func TestPublisher_DefaultPrefix(t *testing.T) {
	pub := &natsbus.Publisher{}

	require.Equal(t, "kyc.deposit.payment_detected", pub.Subject(event.PaymentDetected))
}

func TestPublisher_WhenConnFails_ShouldWrapError(t *testing.T) {
	down := errors.New("no responders")
	pub := &natsbus.Publisher{Conn: &fakeConn{publishFn: func(string, []byte) error { return down }}}

	err := pub.Publish(event.Event{Type: event.SessionClosed})

	require.ErrorIs(t, err, down)
}
