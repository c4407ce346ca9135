package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"coursefeedback/internal/model"
)

const queueGroup = "analytics"

// Bus publishes and consumes feedback events over NATS core
type Bus struct {
	conn     *nats.Conn
	subject  string
	executor *Executor
	logger   *zap.Logger
}

type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
	Executor       *Executor
}

func Connect(url, subject string, logger *zap.Logger, opts Options) (*Bus, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 2 * time.Second
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 60
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Executor == nil {
		opts.Executor = NewExecutor(DefaultBreakerConfig(), logger)
	}

	conn, err := nats.Connect(
		url,
		nats.Name("course-feedback"),
		nats.Timeout(opts.ConnectTimeout),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Bus{conn: conn, subject: subject, executor: opts.Executor, logger: logger}, nil
}

func (b *Bus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}

// PublishFeedbackSubmitted implements service.EventPublisher
func (b *Bus) PublishFeedbackSubmitted(ctx context.Context, evt model.FeedbackEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.executor.Execute(ctx, "nats.publish", func(context.Context) error {
		if err := b.conn.Publish(b.subject, data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	})
}

// Subscribe delivers feedback events to handler until ctx is cancelled,
// then drains the subscription. Instances share one queue group so each
// event is handled once.
func (b *Bus) Subscribe(ctx context.Context, handler Handler) error {
	sub, err := b.conn.QueueSubscribe(b.subject, queueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		var evt model.FeedbackEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			b.logger.Warn("dropping malformed event", zap.Error(err))
			return
		}
		if err := handler(ctx, evt); err != nil {
			b.logger.Error("event handler failed", zap.String("course_id", evt.CourseID), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	if err := b.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := b.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// Noop discards events. It is used when NATS is not configured.
type Noop struct{}

func (Noop) PublishFeedbackSubmitted(context.Context, model.FeedbackEvent) error { return nil }
