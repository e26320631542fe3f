package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/shop-assistant/internal/config"
	"github.com/nguyentranbao-ct/shop-assistant/internal/models"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/logger/log"
	"github.com/nguyentranbao-ct/shop-assistant/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const searchCompletedPattern = "search.completed"

type Publisher interface {
	PublishSearchCompleted(ctx context.Context, event models.SearchEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope mirrors the pattern/data shape used by the other chat topics.
type envelope struct {
	Pattern string             `json:"pattern"`
	Data    models.SearchEvent `json:"data"`
}

type kafkaPublisher struct {
	writer  messageWriter
	topic   string
	metrics *prometheus.HistogramVec
}

// NewPublisher returns a no-op publisher when kafka is disabled. The writer is
// closed when the fx app stops.
func NewPublisher(lc fx.Lifecycle, conf *config.Config) (Publisher, error) {
	if !conf.Kafka.Enabled {
		log.Warnf(context.Background(), "Kafka publisher is disabled in configuration")
		return noopPublisher{}, nil
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(conf.Kafka.Brokers...),
		Topic:                  conf.Kafka.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Errorw(context.Background(), "Failed to deliver search events", "count", len(messages), "error", err)
			}
		},
	}
	p, err := newPublisher(writer, conf.Kafka.Topic)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
	return p, nil
}

func newPublisher(writer messageWriter, topic string) (*kafkaPublisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_published", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaPublisher{writer: writer, topic: topic, metrics: metrics}, nil
}

func (p *kafkaPublisher) PublishSearchCompleted(ctx context.Context, event models.SearchEvent) error {
	start := time.Now()
	value, err := json.Marshal(envelope{Pattern: searchCompletedPattern, Data: event})
	if err != nil {
		return fmt.Errorf("marshal search event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Query),
		Value: value,
		Time:  event.CreatedAt,
	}
	err = p.writer.WriteMessages(ctx, msg)

	code := getCode(err)
	log.Logw(ctx, getLogLevel(code), "publish search event",
		"code", code,
		"topic", p.topic,
		"query", event.Query,
		"source", event.Source,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	p.metrics.
		WithLabelValues(code.String(), p.topic).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unavailable
}

func getLogLevel(code codes.Code) logger.Level {
	switch code {
	case codes.OK:
		return logger.InfoLevel
	case codes.Canceled, codes.DeadlineExceeded:
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}

type noopPublisher struct{}

func (noopPublisher) PublishSearchCompleted(context.Context, models.SearchEvent) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
