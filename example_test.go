package surveyor_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/surveyor"
	"github.com/aretw0/surveyor/pkg/adapters/memory"
	"github.com/aretw0/surveyor/pkg/domain"
	"github.com/aretw0/surveyor/pkg/treeprog"
)

// ExampleSurveyor_Run explores a small synthetic tree until every path has deadended.
func ExampleSurveyor_Run() {
	program, err := treeprog.New(treeprog.Config{Roots: 1, Depth: 2, Branching: 2}, nil)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, err := surveyor.New(ctx, program, surveyor.WithMaxActive(8))
	if err != nil {
		log.Fatal(err)
	}

	if err := s.Run(ctx, surveyor.Unbounded); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("done after %d steps: %s\n", s.CurrentStep(), s)

	// Output:
	// done after 3 steps: 0 active, 0 spilled, 4 deadended, 0 errored
}

// ExampleWithMaxActive shows paths beyond the active limit being spilled to a store
// and promoted again as the active set drains.
func ExampleWithMaxActive() {
	store := memory.NewStore()
	program, err := treeprog.New(treeprog.Config{Roots: 1, Depth: 2, Branching: 2}, store)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, err := surveyor.New(ctx, program,
		surveyor.WithMaxActive(2),
		surveyor.WithPickleOnSpill(true),
		surveyor.WithLifecycleHooks(domain.LifecycleHooks{
			OnStep: func(_ context.Context, e *domain.StepEvent) {
				fmt.Printf("step %d: %d active, %d spilled (%d in store)\n",
					e.Step, e.Counts.Active, e.Counts.Spilled, store.Len())
			},
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := s.Run(ctx, surveyor.Unbounded); err != nil {
		log.Fatal(err)
	}

	// Output:
	// step 1: 2 active, 0 spilled (0 in store)
	// step 2: 2 active, 2 spilled (2 in store)
	// step 3: 2 active, 0 spilled (0 in store)
	// step 4: 0 active, 0 spilled (0 in store)
}
