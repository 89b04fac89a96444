package hub

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gwm17/attpc-envoy/internal/eccdriver"
	"github.com/gwm17/attpc-envoy/internal/module"
	"github.com/gwm17/attpc-envoy/internal/surveyordriver"
)

// responseCapacity is the minimum the response channel must hold per
// spec.md §4.3: 2N ECC envelopes (one transition task, one status
// task, each module) plus N-1 Surveyor envelopes.
func responseCapacity(fleet module.FleetConfig) int {
	return 2*fleet.NumModules + fleet.NumCobos()
}

// Connect spawns one transition task and one status task per ECC
// module (N of each) and one status task per Surveyor (N-1), wiring
// them all to a freshly constructed Hub. It returns the hub and a
// WaitGroup the caller should wait on after calling Shutdown, per
// spec.md §4.3's "joining is the caller's responsibility."
func Connect(ctx context.Context, fleet module.FleetConfig, log zerolog.Logger) (*Hub, *sync.WaitGroup) {
	h := New(responseCapacity(fleet))
	var wg sync.WaitGroup

	runTransition := func(id int) {
		cmds := h.registerCommandChannel(id)
		driver := eccdriver.NewTransitionDriver(id, fleet, cmds, h.Responses(), h.Cancel(), log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = driver.Run(ctx)
		}()
	}

	runStatus := func(id int) {
		driver := eccdriver.NewStatusDriver(id, fleet, h.Responses(), h.Cancel(), log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = driver.Run(ctx)
		}()
	}

	runSurveyor := func(id int) {
		driver := surveyordriver.NewDriver(id, fleet, h.Responses(), h.Cancel(), log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = driver.Run(ctx)
		}()
	}

	for id := 0; id < fleet.NumModules; id++ {
		runTransition(id)
		runStatus(id)
	}
	for id := 0; id < fleet.NumCobos(); id++ {
		runSurveyor(id)
	}

	return h, &wg
}
