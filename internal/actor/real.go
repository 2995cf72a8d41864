package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTTClient sends actor commands over an MQTT broker. Each command is
// published to <prefix>/<actor>/commands with a fresh correlation id and the
// reply is awaited on <prefix>/<actor>/replies/<id>.
type MQTTClient struct {
	client      paho.Client
	prefix      string
	enclosure   string
	overwatcher string
}

// NewMQTTClient connects to the broker and returns a client for the named
// actors.
func NewMQTTClient(broker, prefix, enclosure, overwatcher string) (*MQTTClient, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("enclosure-monitor-rpc-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &MQTTClient{
		client:      client,
		prefix:      prefix,
		enclosure:   enclosure,
		overwatcher: overwatcher,
	}, nil
}

type commandEnvelope struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	ReplyTo string `json:"reply_to"`
}

// command runs one request/reply round trip. The context bounds the whole
// exchange: subscribe, publish, and the wait for the reply.
func (c *MQTTClient) command(ctx context.Context, actorName, command string) ([]byte, error) {
	id := uuid.NewString()
	replyTopic := fmt.Sprintf("%s/%s/replies/%s", c.prefix, actorName, id)
	commandTopic := fmt.Sprintf("%s/%s/commands", c.prefix, actorName)

	replies := make(chan []byte, 1)
	sub := c.client.Subscribe(replyTopic, 1, func(_ paho.Client, msg paho.Message) {
		select {
		case replies <- msg.Payload():
		default:
		}
	})
	if err := waitToken(ctx, sub); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", replyTopic, err)
	}
	defer c.client.Unsubscribe(replyTopic)

	payload, err := json.Marshal(commandEnvelope{ID: id, Command: command, ReplyTo: replyTopic})
	if err != nil {
		return nil, fmt.Errorf("marshal %s command: %w", command, err)
	}
	pub := c.client.Publish(commandTopic, 1, false, payload)
	if err := waitToken(ctx, pub); err != nil {
		return nil, fmt.Errorf("publish to %s: %w", commandTopic, err)
	}

	select {
	case reply := <-replies:
		return reply, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for %s reply: %w", actorName, ctx.Err())
	}
}

// EnclosureStatus fetches and validates the enclosure controller state.
func (c *MQTTClient) EnclosureStatus(ctx context.Context) (*EnclosureStatus, error) {
	reply, err := c.command(ctx, c.enclosure, "status")
	if err != nil {
		return nil, err
	}
	return decodeEnclosureReply(reply)
}

// OverwatcherStatus fetches and validates the overwatcher state.
func (c *MQTTClient) OverwatcherStatus(ctx context.Context) (*OverwatcherStatus, error) {
	reply, err := c.command(ctx, c.overwatcher, "status")
	if err != nil {
		return nil, err
	}
	return decodeOverwatcherReply(reply)
}

// Close disconnects from the broker.
func (c *MQTTClient) Close() error {
	c.client.Disconnect(1000)
	return nil
}

// waitToken waits for a paho token to complete within the context deadline.
func waitToken(ctx context.Context, token paho.Token) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		token.Wait()
		return token.Error()
	}
	if !token.WaitTimeout(time.Until(deadline)) {
		return context.DeadlineExceeded
	}
	return token.Error()
}
