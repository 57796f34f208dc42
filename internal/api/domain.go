package api

import (
	"fmt"

	"github.com/JaimeStill/lifeline/internal/classifier"
	"github.com/JaimeStill/lifeline/internal/config"
	"github.com/JaimeStill/lifeline/internal/reports"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Reports reports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	store, err := newStore(runtime)
	if err != nil {
		return nil, err
	}

	c, err := classifier.New(&runtime.Classifier, runtime.Logger.With("system", "classifier"))
	if err != nil {
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	reportsSystem := reports.New(
		store,
		c,
		reports.Gate{
			Timeout:   runtime.Classifier.TimeoutDuration(),
			Threshold: runtime.Classifier.Threshold,
		},
		runtime.Logger,
	)

	return &Domain{
		Reports: reportsSystem,
	}, nil
}

func newStore(runtime *Runtime) (reports.Store, error) {
	switch runtime.Store {
	case config.StorePostgres:
		if runtime.Database == nil {
			return nil, fmt.Errorf("store %s requires a database", config.StorePostgres)
		}
		runtime.Logger.Info("report store configured", "driver", config.StorePostgres)
		return reports.NewPostgresStore(runtime.Database.Connection()), nil
	case config.StoreMemory, "":
		runtime.Logger.Info("report store configured", "driver", config.StoreMemory)
		return reports.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", runtime.Store)
}
