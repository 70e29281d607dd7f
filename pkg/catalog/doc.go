// Package catalog declares the bridge's command surface.
//
// It binds primitive operations to the session and the engine, groups them
// into composite commands (one discriminator per command) and publishes the
// read-only ones as solidedge:// resources. Install wires all three into a
// registry, a dispatcher and a resolver.
package catalog
