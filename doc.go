/*
Package edgebridge is a stateful command bridge that exposes a CAD design
application (the "engine", such as Solid Edge) to an AI agent.

The engine's automation surface is large and stateful: a feature can only
be built on a closed sketch profile, which needs an open sketch, which needs
an active document, which needs a live connection. The bridge remembers that
state in an explicit session context and publishes a small set of composite
commands plus a read-only resource namespace on top of it.

# Concept

  - Composite commands: one command per concern (create_extrude, draw, ...)
    whose discriminator parameter selects a variant bound to one primitive.
  - Resources: side-effect-free reads addressed by URI, such as
    solidedge://document/list or solidedge://model/variable/{name}.
  - Envelopes: every outcome, including engine faults and panics, is
    reported as {status, data} or {error, message, detail}.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/edgebridge"
		"github.com/aretw0/edgebridge/pkg/adapters/memory"
	)

	func main() {
		ctx := context.Background()
		bridge, err := edgebridge.New(memory.NewEngine())
		if err != nil {
			panic(err)
		}

		bridge.Invoke(ctx, "manage_connection", map[string]any{"action": "connect"})
		bridge.Invoke(ctx, "create_document", map[string]any{"type": "part"})

		env := bridge.Read(ctx, "solidedge://document/count")
		fmt.Println(env.Data)
	}

The engine is reached through ports.Engine: pkg/adapters/memory simulates
it for tests and demos, and pkg/adapters/process drives a bridge helper
process that owns the real automation interface.
*/
package edgebridge
