package server

import (
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Options are the values an application generator may use to build the
// application.
type Options struct {
	// DBPath is the database location. An empty path means an in-memory
	// database.
	DBPath string
	Logger log.Logger
	Debug  bool
	// Metrics is the registry application collectors are registered with.
	// It is nil when metrics are disabled.
	Metrics prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// GenOptions can parse command-line arguments to generate default
// app_state for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)
