package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"popupzone/pkg/logger"

	"github.com/IBM/sarama"
)

// Handler reacts to consumed placement events
type Handler interface {
	HandleEvent(ctx context.Context, event *PlacementEvent) error
}

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
	OffsetOldest   bool
	MaxRetries     int
	RetryBackoff   time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        []string{"localhost:9092"},
		GroupID:        "popupzone-placement-workers",
		Topics:         []string{"placement-events"},
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
		OffsetOldest:   false,
		MaxRetries:     3,
		RetryBackoff:   time.Second,
	}
}

// KafkaConsumer runs consumer group workers feeding a Handler
type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler Handler
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, handler Handler, log *logger.Logger) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{group: group, config: config, handler: handler, log: log}, nil
}

// Start launches numWorkers goroutines that consume until ctx is done
func (c *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	c.log.Info("Starting placement event consumers", "workers", numWorkers, "topics", c.config.Topics)

	go func() {
		for err := range c.group.Errors() {
			c.log.Error("Consumer group error", "error", err)
		}
	}()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}
}

func (c *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	h := NewConsumerGroupHandler(c.handler, c.config.MaxRetries, c.config.RetryBackoff, c.log.WithFields(map[string]interface{}{"worker": workerID}))

	for {
		if err := c.group.Consume(ctx, c.config.Topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Warn("Error consuming messages", "worker", workerID, "error", err)
			time.Sleep(time.Second)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Stop closes the consumer group and waits for the workers
func (c *KafkaConsumer) Stop() error {
	err := c.group.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

// ConsumerGroupHandler decodes messages and hands them to a Handler with
// exponential backoff between attempts.
type ConsumerGroupHandler struct {
	handler    Handler
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func NewConsumerGroupHandler(handler Handler, maxRetries int, backoff time.Duration, log *logger.Logger) *ConsumerGroupHandler {
	return &ConsumerGroupHandler{handler: handler, maxRetries: maxRetries, backoff: backoff, log: log}
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(session.Context(), message); err != nil {
				h.log.Error("Failed to process placement event",
					"topic", message.Topic,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err,
				)
				continue
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *ConsumerGroupHandler) process(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := EventFromJSON(message.Value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	for attempt := 0; ; attempt++ {
		err = h.handler.HandleEvent(ctx, event)
		if err == nil || attempt >= h.maxRetries {
			return err
		}

		select {
		case <-time.After(h.backoff * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
