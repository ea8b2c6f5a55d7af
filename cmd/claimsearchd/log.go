package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/toole-brendan/claimsearch/esindex"
)

// logWriter implements io.Writer and passes all write requests to the
// log rotator, matching btcd-family daemons' logWriter idiom.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	logRotator.Write(p)
	return len(p), nil
}

var (
	backendLog = btclog.NewBackend(logWriter{})

	logRotator *rotator.Rotator

	log = backendLog.Logger("CSRD")

	subsystemLoggers = map[string]btclog.Logger{
		"CSRD": log,
		"ESIX": backendLog.Logger("ESIX"),
	}
)

// initLogRotator initializes the logging rotator to write logs to
// logFile and create roll files in the same directory. It should be
// called before attempting to write any log output.
func initLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create log directory:", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create file rotator:", err)
		os.Exit(1)
	}
	logRotator = r
}

// setLogLevels sets the logging level for every registered subsystem
// logger, and hands esindex the ESIX subsystem logger.
func setLogLevels(levelStr string) {
	level, ok := btclog.LevelFromString(levelStr)
	if !ok {
		level = btclog.LevelInfo
	}
	for _, l := range subsystemLoggers {
		l.SetLevel(level)
	}
	esindex.UseLogger(subsystemLoggers["ESIX"])
}
