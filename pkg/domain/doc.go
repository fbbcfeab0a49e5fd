/*
Package domain contains the core model of the DFA simulator.

It defines the automaton itself (states, alphabet and transition table), the cursor that walks
it, and the records produced by a simulation run. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Definition: the loader record (state count, accepting ids, alphabet, transition rows).
  - Automaton: the validated, read-only transition function built from a Definition.
  - Cursor: the mutable "current state" of one run.
  - Result: the trace and verdict of a simulation run.
*/
package domain
