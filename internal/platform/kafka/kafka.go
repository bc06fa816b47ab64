// Package kafka builds franz-go producer clients and manages topics.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
)

// Client wraps a franz-go client that produces to one default topic.
type Client struct {
	*kgo.Client
	topic string
}

// New connects to the brokers and pings the cluster. Returns nil when no
// brokers are configured.
func New(ctx context.Context, cfg config.KafkaConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID("bloodlink"),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return &Client{Client: cl, topic: cfg.Topic}, nil
}

func (c *Client) Topic() string { return c.topic }

// EnsureTopic creates the topic if it does not exist yet.
func (c *Client) EnsureTopic(ctx context.Context, partitions int32) error {
	if partitions <= 0 {
		partitions = 1
	}
	adm := kadm.NewClient(c.Client)
	// -1 lets the broker apply its default replication factor.
	resp, err := adm.CreateTopics(ctx, partitions, -1, nil, c.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", c.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Health pings the cluster.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx)
}
