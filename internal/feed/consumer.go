package feed

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/finchley/papertrade/internal/alerts"
	"github.com/finchley/papertrade/internal/store"
)

// Consumer reads ticks from Kafka and triggers matching alerts across all
// users. It is the tick-driven counterpart to the on-demand check endpoint.
type Consumer struct {
	brokers  []string
	topic    string
	store    *store.Store
	done     chan struct{}
	wg       sync.WaitGroup
	consumer sarama.Consumer
}

func NewConsumer(brokers []string, topic string, s *store.Store) *Consumer {
	return &Consumer{
		brokers: brokers,
		topic:   topic,
		store:   s,
		done:    make(chan struct{}),
	}
}

// Start begins consuming ticks and checking alerts in the background.
func (c *Consumer) Start() error {
	config := sarama.NewConfig()
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumer(c.brokers, config)
	if err != nil {
		return err
	}
	c.consumer = consumer

	partitionConsumer, err := consumer.ConsumePartition(c.topic, 0, sarama.OffsetNewest)
	if err != nil {
		consumer.Close()
		return err
	}

	slog.Info("Alert worker consuming ticks", "topic", c.topic)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer partitionConsumer.Close()

		tickCount := 0
		alertsTriggered := 0
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-c.done:
				slog.Info("Alert worker shutting down")
				return

			case msg := <-partitionConsumer.Messages():
				var tick Tick
				if err := json.Unmarshal(msg.Value, &tick); err != nil {
					slog.Error("Failed to decode tick", "error", err)
					continue
				}
				tickCount++

				triggered, err := c.checkAlerts(tick.Symbol, tick.Price)
				if err != nil {
					slog.Error("Failed to check alerts", "symbol", tick.Symbol, "error", err)
					continue
				}
				alertsTriggered += triggered

			case err := <-partitionConsumer.Errors():
				slog.Error("Kafka error", "error", err)

			case <-ticker.C:
				if tickCount > 0 || alertsTriggered > 0 {
					slog.Info("Alert worker progress",
						"ticks", tickCount, "triggered", alertsTriggered)
					tickCount = 0
					alertsTriggered = 0
				}
			}
		}
	}()

	return nil
}

// checkAlerts fires every untriggered alert on symbol that the price
// satisfies. The store's conditional update keeps each alert single-shot
// even when a concurrent /alerts/check hits the same rows.
func (c *Consumer) checkAlerts(symbol string, price float64) (int, error) {
	pending, err := c.store.ListActiveAlertsBySymbol(symbol)
	if err != nil {
		return 0, err
	}

	triggered := 0
	for _, alert := range pending {
		if !alerts.ShouldTrigger(alert.Condition, alert.TargetPrice, price) {
			continue
		}

		flipped, err := c.store.MarkAlertTriggered(alert.ID, time.Now().UTC())
		if err != nil {
			slog.Error("Failed to mark alert triggered", "alert_id", alert.ID, "error", err)
			continue
		}
		if !flipped {
			continue
		}

		slog.Info("Alert triggered",
			"alert_id", alert.ID, "user_id", alert.UserID,
			"symbol", symbol, "price", price,
			"condition", alert.Condition, "target", alert.TargetPrice)
		triggered++
	}
	return triggered, nil
}

// Stop gracefully shuts down the consumer.
func (c *Consumer) Stop() {
	close(c.done)
	c.wg.Wait()
	if c.consumer != nil {
		c.consumer.Close()
	}
	slog.Info("Alert worker stopped")
}
