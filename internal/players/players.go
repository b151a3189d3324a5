// Package players provides a factory of AI players from configuration strings.
// It also allows player providers to register themselves.
package players

import (
	"strings"

	"github.com/janpfeifer/connectGo/internal/generics"
	"github.com/janpfeifer/connectGo/internal/parameters"
	. "github.com/janpfeifer/connectGo/internal/state"
	"github.com/pkg/errors"
)

// Player is anything that is able to play the game.
type Player interface {
	// Play returns the column chosen, the next board position (after the column is played)
	// and the expected score of the move, in [0, 1].
	Play(board *Board) (column int, nextBoard *Board, score float32, err error)

	// Finalize is called at the end of a match.
	Finalize()

	String() string
}

// Module must implement NewPlayer called at the start of a match.
// matchId is unique among matches, and NewPlayer is called once per player of the match, so both
// players of a match may come from the same module.
// matchName is used for logging and debugging.
//
// The module pops from params the parameters it uses: any leftover is reported as an error by New.
type Module interface {
	NewPlayer(matchId uint64, matchName string, playerNum PlayerNum, params parameters.Params) (Player, error)
}

// moduleRegistration is a reference to the module and its name.
type moduleRegistration struct {
	Module
	Name string
}

var (
	// Registered external modules.
	keywordToModules = make(map[string]moduleRegistration)
)

// RegisterModule so it can be used by any of the front-ends to play.
func RegisterModule(name string, module Module) {
	keywordToModules[name] = moduleRegistration{Name: name, Module: module}
}

// ModuleNames returns the sorted names of the registered modules.
func ModuleNames() []string {
	var names []string
	for name := range generics.SortedKeys(keywordToModules) {
		names = append(names, name)
	}
	return names
}

var (
	// DefaultPlayerConfig is used if no configuration was given to the AI. The value may be changed by the
	// UI built.
	DefaultPlayerConfig = "mcts"
)

// New creates a new AI player given the configuration string.
//
// Args:
//
//	config: the AI name followed by a colon (":"), followed by a comma-separated list of optional parameters with optional values associated.
//		E.g.: "mcts:c=1.41,max_rollouts=5000,predictor=linear".
//		If empty, the default is given by DefaultPlayerConfig (usually "mcts", if not changed by the program).
//
// More details on the config are dependent on the module used.
func New(matchId uint64, matchName string, playerNum PlayerNum, config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}

	// Find moduleName.
	moduleName := config
	config = ""
	if moduleSplit := strings.Index(moduleName, ":"); moduleSplit != -1 {
		config = moduleName[moduleSplit+1:]
		moduleName = moduleName[:moduleSplit]
	}
	if len(keywordToModules) == 0 {
		return nil, errors.New("no registered AI players. Perhaps you need to import _ \"github.com/janpfeifer/connectGo/internal/players/default\" to your binary ?")
	}
	module, ok := keywordToModules[moduleName]
	if !ok {
		return nil, errors.Errorf("unknown AI player %q, registered players are %q", moduleName, ModuleNames())
	}

	params := parameters.NewFromConfigString(config)
	player, err := module.NewPlayer(matchId, matchName, playerNum, params)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create AI player %q", moduleName)
	}
	if err = parameters.CheckAllConsumed(params); err != nil {
		return nil, errors.WithMessagef(err, "AI player %q", moduleName)
	}
	return player, nil
}
