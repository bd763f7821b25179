package market

import (
	"encoding/json"
	"fmt"
	"os"
)

// StockFixture is one entry of a stocks.json seed file.
type StockFixture struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Sector    string  `json:"sector"`
	MarketCap float64 `json:"market_cap"`
}

type stocksFile struct {
	Stocks []StockFixture `json:"stocks"`
}

// LoadFixtures reads a stocks.json seed file.
func LoadFixtures(path string) ([]StockFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stock fixtures: %w", err)
	}

	var file stocksFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse stock fixtures %s: %w", path, err)
	}
	return file.Stocks, nil
}
