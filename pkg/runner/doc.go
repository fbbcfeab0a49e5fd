/*
Package runner implements the interactive read-evaluate loop of the simulator.

It reads one string per line, runs it through a ports.Simulator and hands the
result to a pluggable IOHandler. Runs can be recorded in a session.Manager so
the history of a shell session survives the process.

# Key Components

  - Runner: the loop itself. It stops on "quit" (any case), on EOF or when the
    context is cancelled.
  - IOHandler: decouples how strings are read and results presented.
  - TextHandler: the human transcript with prompts, transitions and verdicts.
  - JSONHandler: NDJSON for scripts, one result object per input line.

# Usage

	r := runner.NewRunner(sim,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithSessions(manager, "user-1"),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
