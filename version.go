package edgebridge

import (
	_ "embed"
)

// Version is the bridge release, read from the VERSION file.
//
//go:embed VERSION
var Version string
