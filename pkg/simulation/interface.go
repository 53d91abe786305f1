// Package simulation is the scenario framework of the convoy simulator
// CLI: the Scenario contract, the registry scenarios attach to, and
// the flight, weapon, and engagement models the scenarios share.
package simulation

import (
	"context"

	"github.com/picogrid/convoy-tracker/pkg/client"
)

// Scenario is one runnable exercise against a tracker: strike missions,
// accuracy bursts, anything that registers a convoy and reports on it.
type Scenario interface {
	// Name returns the registered scenario name.
	Name() string

	// Description returns a one-line summary for the scenario list.
	Description() string

	// Configure applies the parameters collected from the operator.
	Configure(params map[string]interface{}) error

	// Run drives the scenario against the tracker API until it
	// completes, the context is cancelled, or Stop is called.
	Run(ctx context.Context, client *client.Client) error

	// Stop asks a running scenario to wind down.
	Stop() error
}
