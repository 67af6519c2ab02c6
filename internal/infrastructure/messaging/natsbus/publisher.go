// Package natsbus forwards dispatched outbox events to NATS.
package natsbus

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
)

const DefaultPrefix = "kyc.deposit"

type Conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	Conn   Conn
	Prefix string
}

// Subject maps an event type to "<prefix>.<lowercase type>".
func (p *Publisher) Subject(t event.Type) string {
	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "." + strings.ToLower(string(t))
}

func (p *Publisher) Publish(evt event.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s: %w", evt.Type, err)
	}

	if err := p.Conn.Publish(p.Subject(evt.Type), data); err != nil {
		return fmt.Errorf("nats publish %s: %w", evt.Type, err)
	}
	return nil
}

// Connect dials NATS with unlimited reconnects. Connection state changes are
// logged.
func Connect(url string, timeout time.Duration, logger logging.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("kyc-deposit"),
		nats.Timeout(timeout),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			fields := map[string]any{"url": url}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.Warn("nats disconnected", fields)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return conn, nil
}
