/*
Package ports defines the driven ports (interfaces) of the kanban board.

These interfaces decouple the board facade from external implementations,
allowing the same board to persist to memory, files, Redis, SQLite,
Postgres or a remote storage service.

# Key Interfaces

  - BoardStore: persists and loads the serialized board document.
  - DistributedLocker: serializes store writes across replicas.
*/
package ports
