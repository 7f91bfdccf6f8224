package partition

import (
	"fmt"
	"strings"
)

// Strategy selects how partition boundaries are derived from the sample.
type Strategy uint8

const (
	StrategyUniform Strategy = iota + 1
	StrategySTR
	StrategyHilbert
	StrategyVoronoi
)

// String returns a string representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyUniform:
		return "uniform"
	case StrategySTR:
		return "str"
	case StrategyHilbert:
		return "hilbert"
	case StrategyVoronoi:
		return "voronoi"
	default:
		return "unknown"
	}
}

// ParseStrategy parses the names returned by Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "uniform", "grid":
		return StrategyUniform, nil
	case "str", "rtree":
		return StrategySTR, nil
	case "hilbert":
		return StrategyHilbert, nil
	case "voronoi":
		return StrategyVoronoi, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyUniform, StrategySTR, StrategyHilbert, StrategyVoronoi}
}
