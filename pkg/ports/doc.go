/*
Package ports defines the driven ports (interfaces) of the Surveyor.

These interfaces decouple the scheduler and its demo collaborators from external
implementations, so suspended paths can be kept in memory, on disk or in Redis.

# Key Interfaces

  - SnapshotStore: persists the serialized form of suspended paths.
  - DistributedLocker: gives one process exclusive use of a shared store.
*/
package ports
