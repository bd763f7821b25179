// Package chaos hosts the fault-injection used during interviews: runtime
// scenarios that corrupt price data, flood a stress user with alerts, or arm
// an artificial delay window in the alert check path.
package chaos

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/finchley/papertrade/internal/store"
)

// Scenario identifiers.
const (
	ScenarioData   = "chaos_data"
	ScenarioStress = "chaos_stress"
	ScenarioRace   = "chaos_race"
)

// AvailableScenarios lists what Activate accepts, in display order.
var AvailableScenarios = []string{ScenarioData, ScenarioStress, ScenarioRace}

var ErrUnknownScenario = errors.New("unknown scenario")

const (
	stressUsername   = "stresstest"
	stressEmail      = "stresstest@example.com"
	stressPassword   = "stresstest123"
	stressAlertCount = 500

	raceDelay = 500 * time.Millisecond
)

// Result reports what an activation or reset did.
type Result struct {
	Scenario        string           `json:"scenario,omitempty"`
	Actions         []string         `json:"actions"`
	CorruptedStocks []CorruptedStock `json:"corrupted_stocks,omitempty"`
	StressUser      *StressUser      `json:"stress_user,omitempty"`
}

type CorruptedStock struct {
	Symbol string `json:"symbol"`
	Issue  string `json:"issue"`
}

type StressUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Metrics is the subset of observability the runtime reports into.
type Metrics interface {
	ChaosActivated(scenario string)
}

// Runtime switches chaos scenarios without a restart; changes apply to the
// next request.
type Runtime struct {
	store   *store.Store
	metrics Metrics

	mu        sync.Mutex
	active    string
	raceArmed bool
}

func NewRuntime(s *store.Store) *Runtime {
	return &Runtime{store: s}
}

func (r *Runtime) SetMetrics(m Metrics) { r.metrics = m }

// ActiveScenario returns the running scenario name, empty when clean.
func (r *Runtime) ActiveScenario() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Delay implements alerts.DelayGate: nonzero only while chaos_race is armed.
func (r *Runtime) Delay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceArmed {
		return raceDelay
	}
	return 0
}

// Activate resets any previous scenario, then applies the named one.
func (r *Runtime) Activate(scenario string) (*Result, error) {
	if _, err := r.Reset(); err != nil {
		return nil, err
	}

	var (
		result *Result
		err    error
	)
	switch scenario {
	case ScenarioData:
		result, err = r.corruptData()
	case ScenarioStress:
		result, err = r.createStressAlerts()
	case ScenarioRace:
		result = r.armRaceDelay()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, scenario)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.active = scenario
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ChaosActivated(scenario)
	}
	slog.Warn("Chaos scenario activated", "scenario", scenario)
	return result, nil
}

// Reset disarms the race delay, restores corrupted prices, and deletes the
// stress user's alerts. Safe to call when nothing is active.
func (r *Runtime) Reset() (*Result, error) {
	result := &Result{Actions: []string{}}

	r.mu.Lock()
	if r.raceArmed {
		r.raceArmed = false
		result.Actions = append(result.Actions, "Disabled race delay")
	}
	r.active = ""
	r.mu.Unlock()

	restored, err := r.restorePrices()
	if err != nil {
		return nil, err
	}
	if restored > 0 {
		result.Actions = append(result.Actions, fmt.Sprintf("Reset %d stock prices", restored))
	}

	deleted, err := r.deleteStressAlerts()
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		result.Actions = append(result.Actions, fmt.Sprintf("Deleted %d stress test alerts", deleted))
	}

	return result, nil
}

// corruption lists the chaos_data mutations, keyed by symbol.
var corruption = []struct {
	symbol string
	price  float64
	issue  string
}{
	{"GOOGL", -50.25, "negative price"},
	{"AMZN", 0, "zero price"},
	{"TSLA", 999999999999.99, "overflow price"},
	{"NVDA", -0.0001, "near-zero negative"},
}

func (r *Runtime) corruptData() (*Result, error) {
	result := &Result{Actions: []string{}}

	for _, c := range corruption {
		stock, err := r.store.GetStock(c.symbol)
		if err != nil {
			return nil, err
		}
		if stock == nil {
			continue
		}
		stock.CurrentPrice = c.price
		if err := r.store.SaveStock(stock); err != nil {
			return nil, err
		}
		result.CorruptedStocks = append(result.CorruptedStocks, CorruptedStock{Symbol: c.symbol, Issue: c.issue})
	}

	result.Actions = append(result.Actions,
		fmt.Sprintf("Corrupted %d stocks", len(result.CorruptedStocks)))
	return result, nil
}

func (r *Runtime) createStressAlerts() (*Result, error) {
	result := &Result{Actions: []string{}}

	user, err := r.ensureStressUser(result)
	if err != nil {
		return nil, err
	}

	stocks, err := r.store.ListStocks()
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("no stocks in database")
	}

	for i := 0; i < stressAlertCount; i++ {
		stock := stocks[rand.Intn(len(stocks))]
		condition := store.ConditionAbove
		if rand.Intn(2) == 0 {
			condition = store.ConditionBelow
		}
		alert := &store.PriceAlert{
			UserID:      user.ID,
			Symbol:      stock.Symbol,
			TargetPrice: stock.CurrentPrice * (0.8 + rand.Float64()*0.4),
			Condition:   condition,
			IsActive:    true,
		}
		if err := r.store.CreateAlert(alert); err != nil {
			return nil, err
		}
	}

	result.Actions = append(result.Actions,
		fmt.Sprintf("Created %d alerts for %s user", stressAlertCount, stressUsername))
	result.StressUser = &StressUser{Username: stressUsername, Password: stressPassword}
	return result, nil
}

func (r *Runtime) ensureStressUser(result *Result) (*store.User, error) {
	user, err := r.store.GetUserByUsername(stressUsername)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(stressPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash stress user password: %w", err)
	}
	user = &store.User{
		Username:       stressUsername,
		Email:          stressEmail,
		HashedPassword: string(hash),
		Balance:        100000.0,
	}
	if err := r.store.CreateUser(user); err != nil {
		return nil, err
	}
	result.Actions = append(result.Actions, "Created stresstest user")
	return user, nil
}

func (r *Runtime) armRaceDelay() *Result {
	r.mu.Lock()
	r.raceArmed = true
	r.mu.Unlock()

	return &Result{Actions: []string{
		fmt.Sprintf("Enabled %dms artificial delay", raceDelay.Milliseconds()),
		"Race condition testing mode active",
	}}
}

// restorePrices puts corrupted symbols back to their seed values. Only stocks
// with clearly damaged prices are touched, so a reset after chaos_stress or
// chaos_race leaves organic price moves alone.
func (r *Runtime) restorePrices() (int, error) {
	seedPrices := map[string]float64{
		"GOOGL": 141.25,
		"AMZN":  178.75,
		"TSLA":  248.50,
		"NVDA":  875.30,
	}

	count := 0
	for symbol, price := range seedPrices {
		stock, err := r.store.GetStock(symbol)
		if err != nil {
			return 0, err
		}
		if stock == nil {
			continue
		}
		if stock.CurrentPrice <= 0 || stock.CurrentPrice > 10000 {
			stock.CurrentPrice = price
			if err := r.store.SaveStock(stock); err != nil {
				return 0, err
			}
			count++
		}
	}
	return count, nil
}

func (r *Runtime) deleteStressAlerts() (int64, error) {
	user, err := r.store.GetUserByUsername(stressUsername)
	if err != nil || user == nil {
		return 0, err
	}
	return r.store.DeleteAlertsByUser(user.ID)
}
