// Package logging holds zerolog helpers shared by the toast packages.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field naming the package that wrote a log line.
const ComponentKey = "cmp"

// ComponentFrom tags base with a component name. A base that is already
// tagged is retagged; zerolog keeps both fields and readers take the last.
func ComponentFrom(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str(ComponentKey, name).Logger()
}

// Component tags the global logger with a component name.
func Component(name string) zerolog.Logger {
	return ComponentFrom(log.Logger, name)
}
