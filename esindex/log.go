package esindex

import "github.com/btcsuite/btclog"

// log is the package-level logger used throughout esindex. It is disabled
// by default and enabled by the daemon's log.go via UseLogger.
var log btclog.Logger

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

func init() {
	DisableLog()
}

// DisableLog disables all library log output. Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}
