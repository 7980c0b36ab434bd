package nats

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Bus publishes JSON events and delivers raw payloads to subscribers.
type Bus interface {
	Publish(subject string, data interface{}) error
	Subscribe(subject string, handler func(data []byte)) (Unsubscribe, error)
	Close()
}

type Unsubscribe func() error

type Client struct {
	conn *nats.Conn
}

type Config struct {
	URL           string
	ClientName    string
	MaxReconnects int
	ReconnectWait time.Duration
}

func NewClient(config Config) (*Client, error) {
	opts := []nats.Option{
		nats.Name(config.ClientName),
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("Connected to NATS at %s", nc.ConnectedUrl())

	return &Client{conn: nc}, nil
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Drain()
	}
}

func (c *Client) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (c *Client) Subscribe(subject string, handler func(data []byte)) (Unsubscribe, error) {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	log.Printf("Subscribed to subject: %s", subject)
	return sub.Unsubscribe, nil
}
