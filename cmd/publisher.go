package cmd

import (
	"pizzeria/config"
	"pizzeria/infrastructure/messaging"
	"pizzeria/infrastructure/messaging/kafka"
	"pizzeria/pkg/logger"

	"go.uber.org/zap"
)

// NewPublisher returns the Kafka publisher when brokers are configured and the
// logging publisher otherwise. The close func is never nil.
func NewPublisher(cfg *config.Config) (messaging.Publisher, func() error, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("No Kafka brokers configured, events are written to the log")
		return &messaging.LoggingPublisher{}, func() error { return nil }, nil
	}

	p, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Kafka publisher ready",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))
	return p, p.Close, nil
}
