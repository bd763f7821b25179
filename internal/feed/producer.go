// Package feed is the optional Kafka tick pipeline: the server publishes a
// tick for every simulated price move, and the alert worker consumes the
// topic to trigger alerts for all users.
package feed

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// Tick is one price observation, keyed by symbol for per-symbol ordering.
type Tick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // unix milliseconds
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// Publish sends a tick to the topic. Implements market.TickPublisher.
func (p *Producer) Publish(symbol string, price float64, timestamp int64) error {
	payload, err := json.Marshal(Tick{Symbol: symbol, Price: price, Timestamp: timestamp})
	if err != nil {
		return fmt.Errorf("marshal tick: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(symbol),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send tick: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
