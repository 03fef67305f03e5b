// Package ingest adapts external log sources to the decoder's raw log
// form: a NATS subscription for streaming and a converter for callers
// that already hold go-ethereum logs.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/0xlong/across-analytics/internal/model"
)

// ConsumerOptions configures the NATS raw log subscription.
type ConsumerOptions struct {
	URL     string
	Subject string
	Queue   string
	Buffer  int
}

// Consumer subscribes to a NATS subject carrying raw log JSON and hands
// the decoded messages off on a buffered channel. Messages that do not
// parse are dropped with a warning; backpressure beyond the buffer also
// drops rather than blocking the NATS callback.
type Consumer struct {
	opts   ConsumerOptions
	logger *zap.Logger

	conn *nats.Conn
	sub  *nats.Subscription
	logs chan model.RawLog
}

func NewConsumer(opts ConsumerOptions, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1024
	}
	return &Consumer{
		opts:   opts,
		logger: logger,
		logs:   make(chan model.RawLog, opts.Buffer),
	}
}

// Connect dials the NATS server and starts the queue subscription.
func (c *Consumer) Connect() error {
	opts := []nats.Option{
		nats.Name("across-analytics"),
		nats.Timeout(5 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			c.logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			c.logger.Info("nats connection closed")
		}),
	}

	conn, err := nats.Connect(c.opts.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	c.conn = conn

	sub, err := conn.QueueSubscribe(c.opts.Subject, c.opts.Queue, c.handleMessage)
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe %s: %w", c.opts.Subject, err)
	}
	c.sub = sub

	c.logger.Info("subscribed to raw logs",
		zap.String("url", c.opts.URL),
		zap.String("subject", c.opts.Subject),
		zap.String("queue", c.opts.Queue),
	)
	return nil
}

func (c *Consumer) handleMessage(msg *nats.Msg) {
	var log model.RawLog
	if err := json.Unmarshal(msg.Data, &log); err != nil {
		c.logger.Warn("dropping undecodable message", zap.Error(err))
		return
	}

	select {
	case c.logs <- log:
	default:
		c.logger.Warn("raw log buffer full, dropping message",
			zap.String("tx_hash", log.TxHash),
			zap.Uint64("log_index", log.LogIndex),
		)
	}
}

// Logs returns the channel of received raw logs. The channel is never
// closed; readers stop via their own context.
func (c *Consumer) Logs() <-chan model.RawLog {
	return c.logs
}

// Close stops the subscription and closes the connection. A delivery
// already in flight may still be running, so the logs channel is left
// open.
func (c *Consumer) Close() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.logger.Warn("unsubscribe failed", zap.Error(err))
		}
		c.sub = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
