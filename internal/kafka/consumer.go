package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/carousell/ct-go/pkg/workerpool"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"

	"github.com/portalbase/portal-api/internal/config"
	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/pkg/util"
)

// Consumer drains the notifications topic and dispatches each event
// through the EventHandler.
type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// EventHandler processes one decoded notification event.
type EventHandler interface {
	Dispatch(ctx context.Context, event models.NotificationEvent) error
}

type kafkaConsumer struct {
	reader         *kafka.Reader
	metrics        *prometheus.HistogramVec
	numWorkers     int
	consumeTimeout time.Duration
	handler        EventHandler
	done           chan struct{}
	workerPool     workerpool.Pool
}

func NewConsumer(cfg config.KafkaConfig, handler EventHandler) (Consumer, error) {
	if !cfg.Enabled {
		return &noopConsumer{}, nil
	}

	metrics, err := util.GetHistogramVec("kafka_notifications_consumed", "status", "topic", "group")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	readerConfig := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		StartOffset: kafka.LastOffset,
	}

	numWorkers := 4
	wp := workerpool.New(numWorkers)

	return &kafkaConsumer{
		reader:         kafka.NewReader(readerConfig),
		metrics:        metrics,
		numWorkers:     numWorkers,
		consumeTimeout: 30 * time.Second,
		handler:        handler,
		done:           make(chan struct{}),
		workerPool:     wp,
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Starting Kafka consumer for topic: %s", c.reader.Config().Topic)
	defer c.reader.Close()

	groupID := c.reader.Config().GroupID

	for ctx.Err() == nil {
		select {
		case <-c.done:
			return nil
		default:
		}

		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Errorw(ctx, "Error reading message", "error", err)
			continue
		}

		c.workerPool.Run(func() {
			c.processMessage(ctx, msg, groupID)
		})
	}
	return nil
}

func (c *kafkaConsumer) Stop(ctx context.Context) error {
	log.Infof(ctx, "Stopping Kafka consumer")
	close(c.done)
	c.workerPool.Close()
	c.workerPool.Wait()
	return c.reader.Close()
}

func (c *kafkaConsumer) processMessage(ctx context.Context, msg kafka.Message, groupID string) {
	start := time.Now()
	lagMs := start.Sub(msg.Time).Milliseconds()

	err := c.handle(ctx, msg)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		log.Errorw(ctx, "Error processing message",
			"error", err,
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"lag_ms", lagMs,
			"key", string(msg.Key),
			"value", json.RawMessage(msg.Value),
		)
	} else {
		log.Infow(ctx, "Processed message",
			"duration_ms", duration.Milliseconds(),
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"lag_ms", lagMs,
		)
	}

	c.metrics.
		WithLabelValues(status, msg.Topic, groupID).
		Observe(duration.Seconds())
}

func (c *kafkaConsumer) handle(msgCtx context.Context, msg kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
	}()

	var event models.NotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("unmarshal notification event: %w", err)
	}

	if event.Pattern != models.NotificationEventPattern {
		log.Infow(msgCtx, "Ignoring event", "pattern", event.Pattern)
		return nil
	}

	ctx, cancel := context.WithTimeout(msgCtx, c.consumeTimeout)
	defer cancel()

	return c.handler.Dispatch(ctx, event)
}

// noopConsumer is used when Kafka is disabled.
type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Kafka consumer is disabled")
	return nil
}

func (n *noopConsumer) Stop(ctx context.Context) error {
	return nil
}
