// Package data provides the embedded default dataset.
package data

import _ "embed"

// Fixture is the built-in dataset used when no dataset file is configured.
//
//go:embed fixture.yaml
var Fixture []byte
