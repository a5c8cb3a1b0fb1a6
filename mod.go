// Package weblounge defines the authorization core of the content management
// system: rule-based access control on securable objects, federation of the
// user and role directories that contribute to one logical identity, and the
// projection of effective permissions into search index filters.
package weblounge

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(zerolog.ErrorLevel)

// PromCollectors gathers the prometheus collectors created by the packages of
// the module. Applications register them against their own registry.
var PromCollectors []prometheus.Collector
