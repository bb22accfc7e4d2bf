// Package rolodex provides embedded runtime resources.
package rolodex

import _ "embed"

// ConfigTemplate is the commented default configuration written by `rolodex init`.
//
//go:embed templates/config.yaml
var ConfigTemplate []byte
