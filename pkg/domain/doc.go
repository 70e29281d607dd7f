/*
Package domain contains the core types shared by every layer of the bridge.

It models what the bridge knows about the external engine without talking to it:
document handles, the per-document sketch state machine, the serialisable session
snapshot and the error taxonomy returned to callers. The package is free of I/O
and of third-party dependencies.

# Key Entities

  - DocumentHandle: a weak reference to a document owned by the engine.
  - Sketch: the Idle/Open/Closed profile state of one document.
  - Snapshot: the persisted view of a session, used for inspection.
  - Error: a failure carrying a stable Kind the caller can branch on.
*/
package domain
