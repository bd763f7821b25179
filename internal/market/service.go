// Package market owns the simulated stock catalog: seeding from JSON
// fixtures, lookups, and random-walk price moves.
package market

import (
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/finchley/papertrade/internal/store"
)

// TickPublisher receives a tick for every simulated price move. The Kafka
// producer implements it; a nil publisher disables the pipeline.
type TickPublisher interface {
	Publish(symbol string, price float64, timestamp int64) error
}

// QuoteBroadcaster pushes quote updates to streaming clients.
type QuoteBroadcaster interface {
	Broadcast(symbol string, price, change, changePercent float64)
}

type Service struct {
	store       *store.Store
	publisher   TickPublisher
	broadcaster QuoteBroadcaster
	rng         *rand.Rand
}

func NewService(s *store.Store) *Service {
	return &Service{
		store: s,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetPublisher attaches the optional tick pipeline.
func (m *Service) SetPublisher(p TickPublisher) { m.publisher = p }

// SetBroadcaster attaches the optional websocket quote stream.
func (m *Service) SetBroadcaster(b QuoteBroadcaster) { m.broadcaster = b }

// Seed inserts any fixture stocks that are not already present.
// Day range starts collapsed at the seed price and volume is randomized,
// matching first-open market state.
func (m *Service) Seed(fixtures []StockFixture) error {
	created := 0
	for _, f := range fixtures {
		symbol := strings.ToUpper(f.Symbol)
		existing, err := m.store.GetStock(symbol)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		stock := &store.Stock{
			Symbol:        symbol,
			Name:          f.Name,
			CurrentPrice:  f.Price,
			PreviousClose: f.Price,
			DayHigh:       f.Price,
			DayLow:        f.Price,
			Volume:        int64(m.rng.Intn(49_000_000) + 1_000_000),
			MarketCap:     f.MarketCap,
			Sector:        f.Sector,
		}
		if err := m.store.CreateStock(stock); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		slog.Info("Seeded stock catalog", "created", created)
	}
	return nil
}

func (m *Service) GetStock(symbol string) (*store.Stock, error) {
	return m.store.GetStock(symbol)
}

func (m *Service) ListStocks() ([]store.Stock, error) {
	return m.store.ListStocks()
}

func (m *Service) SearchStocks(query string) ([]store.Stock, error) {
	return m.store.SearchStocks(query)
}

// SimulatePriceChange applies a random move within ±2% to one stock.
// Returns nil when the symbol is unknown.
func (m *Service) SimulatePriceChange(symbol string) (*store.Stock, error) {
	stock, err := m.store.GetStock(symbol)
	if err != nil || stock == nil {
		return nil, err
	}
	if err := m.applyMove(stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// SimulateAllPrices applies a random move to every stock.
func (m *Service) SimulateAllPrices() ([]store.Stock, error) {
	stocks, err := m.store.ListStocks()
	if err != nil {
		return nil, err
	}
	for i := range stocks {
		if err := m.applyMove(&stocks[i]); err != nil {
			return nil, err
		}
	}
	return stocks, nil
}

func (m *Service) applyMove(stock *store.Stock) error {
	changePercent := (m.rng.Float64() * 0.04) - 0.02
	newPrice := Round2(stock.CurrentPrice * (1 + changePercent))

	stock.CurrentPrice = newPrice
	stock.DayHigh = math.Max(stock.DayHigh, newPrice)
	if stock.DayLow == 0 {
		stock.DayLow = newPrice
	} else {
		stock.DayLow = math.Min(stock.DayLow, newPrice)
	}
	stock.Volume += int64(m.rng.Intn(99_000) + 1_000)
	stock.UpdatedAt = time.Now().UTC()

	if err := m.store.SaveStock(stock); err != nil {
		return err
	}

	if m.publisher != nil {
		if err := m.publisher.Publish(stock.Symbol, newPrice, time.Now().UnixMilli()); err != nil {
			slog.Error("Failed to publish tick", "symbol", stock.Symbol, "error", err)
		}
	}
	if m.broadcaster != nil {
		change, pct := Change(stock)
		m.broadcaster.Broadcast(stock.Symbol, newPrice, change, pct)
	}
	return nil
}

// Change computes the move from previous close in dollars and percent.
func Change(stock *store.Stock) (change, changePercent float64) {
	if stock.PreviousClose > 0 {
		change = Round2(stock.CurrentPrice - stock.PreviousClose)
		changePercent = Round2(change / stock.PreviousClose * 100)
	}
	return change, changePercent
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
