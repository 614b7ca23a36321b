// Package contactbook provides embedded runtime resources.
package contactbook

import _ "embed"

// DefaultConfigYAML is the commented config file written by `contactbook init`.
//
//go:embed templates/config.yaml
var DefaultConfigYAML []byte
