/*
Package ports defines the driven ports (interfaces) of the DFA simulator.

These interfaces decouple the core logic from external implementations, allowing
the simulator to work with various definition sources, transcript stores and transports.

# Key Interfaces

  - DefinitionLoader: Produces a single definition record (text file, YAML, memory).
  - Catalog: Serves several named definitions (e.g. a directory of documents).
  - TranscriptStore: Persists the run history of interactive sessions.
  - DistributedLocker: Provides distributed locking for concurrent session access.
  - Simulator: The engine surface consumed by transports (HTTP, MCP).
*/
package ports
