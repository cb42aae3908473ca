package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"newlook-scraper-worker/internal/logger"
	"newlook-scraper-worker/internal/model"

	"github.com/IBM/sarama"
)

type Producer interface {
	Send(listing model.Listing) error
	SendBatch(listings []model.Listing) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logger.Logger
}

// NewProducer creates a new KafkaProducer.
// brokers is a slice of broker host:port strings, e.g. []string{"localhost:9092"}.
// topic is the target Kafka topic name.
func NewProducer(brokers []string, topic string, logger logger.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		logger.Errorf("Failed to create Kafka producer: %v", err)
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Infof("Kafka producer created. Brokers: %v, Topic: %s", brokers, topic)

	return &KafkaProducer{
		producer: p,
		topic:    topic,
		logger:   logger,
	}, nil
}

func (p *KafkaProducer) message(listing model.Listing) (*sarama.ProducerMessage, error) {
	jsonData, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("source"), Value: []byte(listing.Source)},
			{Key: []byte("timestamp"), Value: []byte(listing.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}

// Send sends a single Listing message to Kafka.
func (p *KafkaProducer) Send(listing model.Listing) error {
	msg, err := p.message(listing)
	if err != nil {
		p.logger.Errorf("Failed to marshal listing: %v", err)
		return err
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Errorf("Failed to send message: %v", err)
		return err
	}

	p.logger.Infof("Message sent to partition %d at offset %d", partition, offset)
	return nil
}

// SendBatch sends multiple Listing messages to Kafka in a batch.
func (p *KafkaProducer) SendBatch(listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	p.logger.Debugf("Preparing to send batch of %d listings", len(listings))

	msgs := make([]*sarama.ProducerMessage, 0, len(listings))
	for _, listing := range listings {
		msg, err := p.message(listing)
		if err != nil {
			p.logger.Errorf("Failed to marshal listing: %v", err)
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		p.logger.Errorf("Failed to send batch: %v", err)
		return fmt.Errorf("batch delivery error: %w", err)
	}

	p.logger.Infof("Successfully sent batch of %d listings", len(listings))
	return nil
}

// Close closes the producer.
func (p *KafkaProducer) Close() error {
	p.logger.Infof("Closing producer...")
	return p.producer.Close()
}
