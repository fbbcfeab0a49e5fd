package dfa_test

import (
	"context"
	"fmt"
	"log"

	"github.com/no-hao/DFA"
	"github.com/no-hao/DFA/pkg/adapters/memory"
	"github.com/no-hao/DFA/pkg/domain"
)

// ExampleNew_memory builds a simulator from an in-memory definition, which is
// handy for tests and embedded use where no definition file exists.
func ExampleNew_memory() {
	loader, err := memory.NewLoader(domain.Definition{
		Name:        "contains-a",
		NumStates:   2,
		Accepting:   []int{1},
		Alphabet:    []domain.Symbol{"a", "b"},
		Transitions: [][]int{{1, 0}, {1, 1}},
	})
	if err != nil {
		log.Fatal(err)
	}

	sim, err := dfa.New("", dfa.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, input := range []string{"bb", "ba", "ac"} {
		result := sim.SimulateString(ctx, input)
		fmt.Printf("%s: %s (%d steps)\n", input, result.Verdict, result.Steps())
	}
	// Output:
	// bb: REJECTED (2 steps)
	// ba: ACCEPTED (2 steps)
	// ac: REJECTED (1 steps)
}

// ExampleSimulator_Simulate shows the computation trace of a run that hits an unknown symbol.
func ExampleSimulator_Simulate() {
	loader, err := memory.NewLoader(domain.Definition{
		Name:        "contains-a",
		NumStates:   2,
		Accepting:   []int{1},
		Alphabet:    []domain.Symbol{"a", "b"},
		Transitions: [][]int{{1, 0}, {1, 1}},
	})
	if err != nil {
		log.Fatal(err)
	}
	sim, err := dfa.New("", dfa.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	result := sim.Simulate(context.Background(), []domain.Symbol{"a", "c"})
	for _, entry := range result.Trace {
		fmt.Println(entry.Kind, entry.State, domain.JoinSymbols(entry.Remaining), entry.Symbol)
	}
	fmt.Println(result.Verdict)
	// Output:
	// pending 0 ac
	// pending 1 c
	// failed 1  c
	// REJECTED
}
