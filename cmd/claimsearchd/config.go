package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/toole-brendan/claimsearch/engine"
)

const (
	defaultConfigFilename = "claimsearchd.conf"
	defaultLogFilename    = "claimsearchd.log"
	defaultLogLevel       = "info"
)

var (
	defaultHomeDir   = appDataDir("claimsearchd", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, "logs")
)

// config defines the configuration options for claimsearchd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	HomeDir    string `long:"homedir" description:"Directory to store data and logs"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	LogLevel   string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`

	ElasticSearchURL string        `long:"esurl" description:"Elasticsearch node URL"`
	IndexPrefix      string        `long:"indexprefix" description:"Index name prefix"`
	StartupTimeout   time.Duration `long:"startuptimeout" description:"How long to wait for a yellow cluster on startup"`
	BatchSize        int           `long:"batchsize" description:"Max writes per sync batch"`

	BlockedStreamsPath   string `long:"blockedstreams" description:"Path to the blocked-streams block list"`
	BlockedChannelsPath  string `long:"blockedchannels" description:"Path to the blocked-channels block list"`
	FilteredStreamsPath  string `long:"filteredstreams" description:"Path to the filtered-streams block list"`
	FilteredChannelsPath string `long:"filteredchannels" description:"Path to the filtered-channels block list"`
}

// defaultConfig returns a config populated with default values, before
// the config file or command line are parsed over it.
func defaultConfig() *config {
	defaults := engine.DefaultConfig()
	return &config{
		ConfigFile: defaultConfigFile,
		HomeDir:    defaultHomeDir,
		LogDir:     defaultLogDir,
		LogLevel:   defaultLogLevel,

		ElasticSearchURL: defaults.ElasticSearchURL,
		IndexPrefix:      defaults.IndexPrefix,
		StartupTimeout:   defaults.StartupTimeout,
		BatchSize:        defaults.BatchSize,
	}
}

// loadConfig reads the config file (if present) then overlays command
// line flags on top of it, mirroring the two-pass parse every
// btcd-family daemon uses so command line flags always win.
func loadConfig() (*config, []string, error) {
	cfg := defaultConfig()

	preCfg := *cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	_, err := preParser.Parse()
	if err != nil {
		return nil, nil, err
	}
	if preCfg.ConfigFile != "" {
		cfg.ConfigFile = preCfg.ConfigFile
	}

	if err := flags.NewIniParser(flags.NewParser(cfg, flags.Default)).ParseFile(cfg.ConfigFile); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			return nil, nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	parser := flags.NewParser(cfg, flags.Default)
	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	if cfg.HomeDir != defaultHomeDir {
		if cfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(cfg.HomeDir, "logs")
		}
	}

	return cfg, remainingArgs, nil
}

// toEngineConfig translates the flat CLI/INI config into engine.Config.
func (c *config) toEngineConfig() *engine.Config {
	return &engine.Config{
		ElasticSearchURL: c.ElasticSearchURL,
		IndexPrefix:      c.IndexPrefix,
		StartupTimeout:   c.StartupTimeout,
		BatchSize:        c.BatchSize,

		BlockedStreamsPath:   c.BlockedStreamsPath,
		BlockedChannelsPath:  c.BlockedChannelsPath,
		FilteredStreamsPath:  c.FilteredStreamsPath,
		FilteredChannelsPath: c.FilteredChannelsPath,
	}
}

// appDataDir mirrors btcutil.AppDataDir's behavior without taking the
// dependency: it resolves to $HOME/.<name> on non-Windows platforms,
// which is all this daemon needs.
func appDataDir(name string, roaming bool) string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, "."+name)
	}
	return "." + name
}
