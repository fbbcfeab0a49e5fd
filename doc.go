/*
Package dfa simulates deterministic finite automata.

A definition (states, alphabet, accepting states and a transition table) is loaded
from a file, validated and compiled into a read-only automaton. Input strings are
then walked one symbol at a time, producing a full computation trace and an
ACCEPTED or REJECTED verdict. A symbol outside the alphabet halts the run with a
failed trace entry instead of an error.

# Definition Sources

New picks a loader from the source path:

  - *.yaml, *.yml, *.json: a YAML/JSON document (see pkg/adapters/yaml).
  - a directory: a catalog of documents served by Loam (see pkg/adapters/loam).
  - anything else: the line-oriented DFA.txt format (see pkg/adapters/text).

Use WithLoader to bypass file loading entirely.

# Usage

	sim, err := dfa.New("DFA.txt")
	if err != nil {
		log.Fatal(err)
	}

	result := sim.SimulateString(context.Background(), "ab")
	fmt.Println(result.Verdict) // ACCEPTED

A Simulator is safe for concurrent use: every run owns its own cursor.
*/
package dfa
