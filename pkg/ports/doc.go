/*
Package ports defines the driven ports (interfaces) of the bridge.

These interfaces decouple the session and dispatch layers from concrete
implementations, allowing the bridge to drive a real engine through a helper
process or a simulated one in tests, and to persist snapshots in memory, on
disk or in Redis.

# Key Interfaces

  - Engine: the boundary to the external CAD application.
  - SnapshotStore: persists inspectable session snapshots.
  - DistributedLocker: guards one engine instance against concurrent callers.
*/
package ports
