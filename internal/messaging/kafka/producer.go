package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Producer публикует события магазина через sarama.SyncProducer.
type Producer struct {
	inner  sarama.SyncProducer
	logger *log.Entry
}

// producerConfig настраивает идемпотентного продьюсера:
// подтверждение всеми in-sync репликами и не больше одного
// запроса в полёте на соединение.
func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducer подключается к брокерам и возвращает готовый Producer.
func NewProducer(brokers []string) (*Producer, error) {
	inner, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Producer{
		inner:  inner,
		logger: log.WithField("component", "kafka-producer"),
	}, nil
}

// PublishEvent сериализует событие в JSON и синхронно отправляет его в topic.
func (p *Producer) PublishEvent(topic string, key string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	entry := p.logger.WithFields(log.Fields{"topic": topic, "key": key})

	partition, offset, err := p.inner.SendMessage(&sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(body),
		Timestamp: time.Now(),
	})
	if err != nil {
		entry.WithError(err).Error("failed to send message to kafka")
		return fmt.Errorf("send message: %w", err)
	}

	entry.WithFields(log.Fields{
		"partition": partition,
		"offset":    offset,
		"bytes":     len(body),
	}).Debug("message sent to kafka")
	return nil
}

// Close закрывает соединение с брокерами.
func (p *Producer) Close() error {
	if err := p.inner.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
