package strategy

import (
	"fmt"
	"sort"
)

// StrategyManager holds named generators and remembers registration order so
// batches always evaluate strategies in the same sequence
type StrategyManager struct {
	generators map[string]Generator
	order      []string
}

func NewStrategyManager() *StrategyManager {
	return &StrategyManager{
		generators: make(map[string]Generator),
	}
}

// Strategy sets selectable by name
const (
	SetDefault  = "default"
	SetExtended = "extended"
)

// NewManagerForSet registers the generators of the named set with their
// default parameters
func NewManagerForSet(set string) (*StrategyManager, error) {
	var (
		gens []Generator
		err  error
	)
	switch set {
	case SetDefault, "":
		gens, err = Defaults()
	case SetExtended:
		gens, err = Extended()
	default:
		return nil, fmt.Errorf("unknown strategy set %q", set)
	}
	if err != nil {
		return nil, err
	}

	m := NewStrategyManager()
	for _, g := range gens {
		m.Register(g)
	}
	return m, nil
}

// NewDefaultManager registers the four standard strategies. It panics only
// when a default parameter set fails its own validation.
func NewDefaultManager() *StrategyManager {
	m, err := NewManagerForSet(SetDefault)
	if err != nil {
		panic(err)
	}
	return m
}

// Defaults returns Moving Average, RSI, MACD and Bollinger Bands with default
// parameters, in that order
func Defaults() ([]Generator, error) {
	ma, err := NewMovingAverageStrategy(DefaultMovingAverageParams())
	if err != nil {
		return nil, err
	}
	rsi, err := NewRSIStrategy(DefaultRSIParams())
	if err != nil {
		return nil, err
	}
	macd, err := NewMACDStrategy(DefaultMACDParams())
	if err != nil {
		return nil, err
	}
	bb, err := NewBollingerStrategy(DefaultBollingerParams())
	if err != nil {
		return nil, err
	}
	return []Generator{ma, rsi, macd, bb}, nil
}

// Extended adds the z-score and return-reversal strategies to the defaults
func Extended() ([]Generator, error) {
	gens, err := Defaults()
	if err != nil {
		return nil, err
	}
	z, err := NewZScoreStrategy(DefaultZScoreParams())
	if err != nil {
		return nil, err
	}
	rev, err := NewReturnReversalStrategy(DefaultReversalWindow)
	if err != nil {
		return nil, err
	}
	return append(gens, z, rev), nil
}

// Register adds or replaces a generator under its Name()
func (m *StrategyManager) Register(g Generator) {
	if _, exists := m.generators[g.Name()]; !exists {
		m.order = append(m.order, g.Name())
	}
	m.generators[g.Name()] = g
}

func (m *StrategyManager) Get(name string) (Generator, error) {
	g, ok := m.generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return g, nil
}

// Generators returns the registered generators in registration order
func (m *StrategyManager) Generators() []Generator {
	out := make([]Generator, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.generators[name])
	}
	return out
}

// List returns the registered names sorted alphabetically
func (m *StrategyManager) List() []string {
	names := append([]string(nil), m.order...)
	sort.Strings(names)
	return names
}

// MaxWarmUp is the longest warm-up among the registered generators
func (m *StrategyManager) MaxWarmUp() int {
	longest := 0
	for _, g := range m.generators {
		if g.WarmUp() > longest {
			longest = g.WarmUp()
		}
	}
	return longest
}
