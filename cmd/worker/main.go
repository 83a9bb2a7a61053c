// cmd/worker/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/unclebandit/marketdesk-backend/internal/config"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

func main() {
	var (
		amqpURL  string
		exchange string
		consumer string
	)

	root := &cobra.Command{
		Use:          "worker",
		Short:        "Consume dashboard notifications from RabbitMQ",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if amqpURL == "" {
				amqpURL = cfg.AMQPURL
			}
			if exchange == "" {
				exchange = cfg.AMQPExchange
			}
			if amqpURL == "" {
				return errors.New("no broker configured: set AMQP_URL or --amqp-url")
			}

			logger, err := config.NewLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(cmd.Context(), amqpURL, exchange, consumer, logger)
		},
	}
	root.Flags().StringVar(&amqpURL, "amqp-url", "", "RabbitMQ URL (default AMQP_URL)")
	root.Flags().StringVar(&exchange, "exchange", "", "exchange to bind (default AMQP_EXCHANGE)")
	root.Flags().StringVar(&consumer, "consumer", "", "consumer tag")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, url, exchange, consumer string, logger *zap.Logger) error {
	// Connect to RabbitMQ
	conn, err := amqp.Dial(url)
	if err != nil {
		return errors.Wrap(err, "connect to RabbitMQ")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer ch.Close()

	msgs, err := queue.ConsumeNotifications(ch, exchange, consumer)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		service.NewWorker(deliveriesToJobs(msgs, logger), queue.LogEvent(logger), logger).Start()
	}()

	logger.Info("Worker running, waiting for messages...", zap.String("exchange", exchange))
	select {
	case <-ctx.Done():
		logger.Info("stopping worker")
		// closing the channel ends msgs, which drains the worker
		_ = ch.Close()
		<-done
	case <-done:
		logger.Warn("delivery channel closed by broker")
	}
	return nil
}

// deliveriesToJobs decodes each delivery into a worker job. Messages that are
// not events are acked and dropped since a retry cannot fix them.
func deliveriesToJobs(msgs <-chan amqp.Delivery, logger *zap.Logger) <-chan service.Job {
	jobs := make(chan service.Job)
	go func() {
		defer close(jobs)
		for d := range msgs {
			ev, err := queue.DecodeEvent(d.Body)
			if err != nil {
				logger.Warn("invalid message", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
				if err := d.Ack(false); err != nil {
					logger.Error("ack invalid message", zap.Error(err))
				}
				continue
			}

			jobs <- service.Job{
				Event:       ev,
				Redelivered: d.Redelivered,
				Ack:         func() error { return d.Ack(false) },
				Nack:        func(requeue bool) error { return d.Nack(false, requeue) },
			}
		}
	}()
	return jobs
}
