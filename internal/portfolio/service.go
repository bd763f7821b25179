// Package portfolio values a user's holdings against current market prices.
package portfolio

import (
	"errors"

	"github.com/finchley/papertrade/internal/market"
	"github.com/finchley/papertrade/internal/store"
)

var ErrHoldingNotFound = errors.New("no holding found")

// Position is one valued holding.
type Position struct {
	ID              uint    `json:"id"`
	Symbol          string  `json:"symbol"`
	Quantity        float64 `json:"quantity"`
	AverageBuyPrice float64 `json:"average_buy_price"`
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	TotalGainLoss   float64 `json:"total_gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// Summary is the full portfolio view.
type Summary struct {
	CashBalance         float64    `json:"cash_balance"`
	TotalHoldingsValue  float64    `json:"total_holdings_value"`
	TotalPortfolioValue float64    `json:"total_portfolio_value"`
	TotalGainLoss       float64    `json:"total_gain_loss"`
	Holdings            []Position `json:"holdings"`
}

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Positions values every holding of the user. When a symbol has left the
// catalog its average buy price stands in for the current price.
func (p *Service) Positions(user *store.User) ([]Position, error) {
	holdings, err := p.store.ListHoldings(user.ID)
	if err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(holdings))
	for i := range holdings {
		pos, err := p.value(&holdings[i])
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// Position values the user's holding in one symbol.
func (p *Service) Position(user *store.User, symbol string) (*Position, error) {
	holding, err := p.store.GetHolding(user.ID, symbol)
	if err != nil {
		return nil, err
	}
	if holding == nil {
		return nil, ErrHoldingNotFound
	}
	pos, err := p.value(holding)
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

// Summarize builds the portfolio summary for the user.
func (p *Service) Summarize(user *store.User) (*Summary, error) {
	positions, err := p.Positions(user)
	if err != nil {
		return nil, err
	}

	var holdingsValue, costBasis float64
	for _, pos := range positions {
		holdingsValue += pos.Quantity * pos.CurrentPrice
		costBasis += pos.Quantity * pos.AverageBuyPrice
	}

	return &Summary{
		CashBalance:         market.Round2(user.Balance),
		TotalHoldingsValue:  market.Round2(holdingsValue),
		TotalPortfolioValue: market.Round2(user.Balance + holdingsValue),
		TotalGainLoss:       market.Round2(holdingsValue - costBasis),
		Holdings:            positions,
	}, nil
}

func (p *Service) value(holding *store.Holding) (Position, error) {
	currentPrice := holding.AverageBuyPrice
	stock, err := p.store.GetStock(holding.Symbol)
	if err != nil {
		return Position{}, err
	}
	if stock != nil {
		currentPrice = stock.CurrentPrice
	}

	currentValue := holding.Quantity * currentPrice
	costBasis := holding.Quantity * holding.AverageBuyPrice
	gainLoss := currentValue - costBasis
	gainLossPercent := 0.0
	if costBasis > 0 {
		gainLossPercent = gainLoss / costBasis * 100
	}

	return Position{
		ID:              holding.ID,
		Symbol:          holding.Symbol,
		Quantity:        holding.Quantity,
		AverageBuyPrice: market.Round2(holding.AverageBuyPrice),
		CurrentPrice:    market.Round2(currentPrice),
		CurrentValue:    market.Round2(currentValue),
		TotalGainLoss:   market.Round2(gainLoss),
		GainLossPercent: market.Round2(gainLossPercent),
	}, nil
}
