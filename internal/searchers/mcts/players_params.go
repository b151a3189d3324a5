package mcts

import (
	"time"

	"github.com/janpfeifer/connectGo/internal/ai"
	"github.com/janpfeifer/connectGo/internal/ai/dtree"
	"github.com/janpfeifer/connectGo/internal/ai/linear"
	"github.com/janpfeifer/connectGo/internal/parameters"
	"github.com/janpfeifer/connectGo/internal/rollout"
	"github.com/pkg/errors"
)

// Predictors maps the names accepted by the "predictor" parameter to the built-in move predictors.
var Predictors = map[string]ai.MovePredictor{
	"linear": linear.CenterBiased,
	"dtree":  dtree.CenterFirst,
}

// NewFromParams creates a Searcher from the parameters, popping the ones it uses:
//
//   - c (float): exploration constant, default √2.
//   - max_time (time.Duration) or max_rollouts (int): search budget, only one of them can be
//     set. Default is max_time=1s.
//   - alpha (float): progressive widening exponent, in (0, 1]. Default 0.25.
//   - heuristic (bool): heuristic expansion (immediate wins and blocks first). Default true.
//   - rollout (string): "random" or "predictor". Default "random", or "predictor" if a
//     predictor is set.
//   - predictor (string): move predictor for the rollouts, one of Predictors. Default "linear".
//   - seed (int): seed for the random number generator, 0 for a random one.
//
// The remaining parameters are left in params.
func NewFromParams(params parameters.Params) (*Searcher, error) {
	cfg := DefaultConfig()
	var err error
	cfg.ExplorationConstant, err = parameters.PopParamOr(params, "c", cfg.ExplorationConstant)
	if err != nil {
		return nil, err
	}
	if params.Has("max_time") && params.Has("max_rollouts") {
		return nil, errors.New("only one of max_time or max_rollouts can be set")
	}
	if params.Has("max_rollouts") {
		var maxRollouts int
		maxRollouts, err = parameters.PopParamOr(params, "max_rollouts", 0)
		if err != nil {
			return nil, err
		}
		if maxRollouts <= 0 {
			return nil, errors.Errorf("max_rollouts=%d must be > 0", maxRollouts)
		}
		cfg.Budget = RolloutBudget(maxRollouts)
	} else {
		var maxTime time.Duration
		maxTime, err = parameters.PopParamOr(params, "max_time", cfg.Budget.MaxTime())
		if err != nil {
			return nil, err
		}
		if maxTime <= 0 {
			return nil, errors.Errorf("max_time=%s must be > 0", maxTime)
		}
		cfg.Budget = TimeBudget(maxTime)
	}
	cfg.WideningAlpha, err = parameters.PopParamOr(params, "alpha", cfg.WideningAlpha)
	if err != nil {
		return nil, err
	}
	cfg.HeuristicExpansion, err = parameters.PopParamOr(params, "heuristic", cfg.HeuristicExpansion)
	if err != nil {
		return nil, err
	}

	defaultRollout := "random"
	if params.Has("predictor") {
		defaultRollout = "predictor"
	}
	rolloutName, err := parameters.PopParamOr(params, "rollout", defaultRollout)
	if err != nil {
		return nil, err
	}
	hasPredictor := params.Has("predictor")
	predictorName, err := parameters.PopParamOr(params, "predictor", "linear")
	if err != nil {
		return nil, err
	}
	switch rolloutName {
	case "random":
		if hasPredictor {
			return nil, errors.Errorf("predictor=%q can't be used with rollout=random", predictorName)
		}
	case "predictor":
		predictor, found := Predictors[predictorName]
		if !found {
			return nil, errors.Errorf("unknown predictor=%q, valid values are \"linear\" or \"dtree\"", predictorName)
		}
		cfg.Rollout = rollout.NewPredictorGuided(predictor)
	default:
		return nil, errors.Errorf("unknown rollout=%q, valid values are \"random\" or \"predictor\"", rolloutName)
	}

	seed, err := parameters.PopParamOr(params, "seed", 0)
	if err != nil {
		return nil, err
	}
	if seed < 0 {
		return nil, errors.Errorf("seed=%d must be >= 0", seed)
	}
	cfg.Seed = uint64(seed)

	searcher, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return searcher, nil
}
