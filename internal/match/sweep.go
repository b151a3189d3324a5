package match

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// SweepResult is the tally of the arena between two exploration constants: AI-1 uses C1 and
// AI-2 uses C2.
type SweepResult struct {
	C1, C2 float64
	Tally  Tally
}

// WithParam returns the AI config with key=value appended to its parameters. Since later
// parameters override earlier ones, it also replaces a previous value of key.
func WithParam(config, key, value string) string {
	kv := key + "=" + value
	if config == "" {
		return kv
	}
	if !strings.Contains(config, ":") {
		return config + ":" + kv
	}
	if strings.HasSuffix(config, ":") || strings.HasSuffix(config, ",") {
		return config + kv
	}
	return config + "," + kv
}

// Sweep runs an arena for every ordered pair of different exploration constants, with
// baseConfig (e.g. "mcts:max_rollouts=1000") used for both AIs and the "c" parameter set to the
// constants of the pair.
//
// arena is used as the template for each pair: its Configs are overwritten. Sweep stops at the
// first error, returning the results so far.
func Sweep(ctx context.Context, baseConfig string, constants []float64, arena Arena) ([]SweepResult, error) {
	if len(constants) < 2 {
		return nil, errors.Errorf("sweep needs at least 2 exploration constants, got %v", constants)
	}
	var results []SweepResult
	for _, c1 := range constants {
		for _, c2 := range constants {
			if c1 == c2 {
				continue
			}
			a := arena
			for ii, c := range [2]float64{c1, c2} {
				a.Configs[ii] = WithParam(baseConfig, "c", strconv.FormatFloat(c, 'g', -1, 64))
			}
			klog.V(1).Infof("Sweep: c=%g vs c=%g", c1, c2)
			tally, err := a.Run(ctx)
			if err != nil {
				return results, errors.WithMessagef(err, "sweep c=%g vs c=%g", c1, c2)
			}
			results = append(results, SweepResult{C1: c1, C2: c2, Tally: tally})
		}
	}
	return results, nil
}

// ParseConstants parses a comma-separated list of exploration constants, e.g. "0.5,1.41,2".
func ParseConstants(list string) ([]float64, error) {
	var constants []float64
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exploration constant %q", part)
		}
		if c < 0 {
			return nil, errors.Errorf("invalid exploration constant %g, it must be >= 0", c)
		}
		constants = append(constants, c)
	}
	return constants, nil
}
