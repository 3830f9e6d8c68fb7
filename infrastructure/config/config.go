// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/altcoinj/altcoin/infrastructure/logger"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultConfigFilename = "altcoin.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "altcoin.log"
	defaultErrLogFilename = "altcoin_err.log"
)

// DefaultAppDir is the default home directory for the altcoin tools.
var DefaultAppDir = btcutil.AppDataDir("altcoin", false)

// Flags defines the configuration options shared by the altcoin tools.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ConfigFile      string `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir          string `short:"A" long:"appdir" description:"Directory to store data and logs"`
	DataDir         string `short:"b" long:"datadir" description:"Directory to store the header database"`
	LogDir          string `long:"logdir" description:"Directory to log output"`
	DebugLevel      string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	CheckpointsFile string `long:"checkpoints" description:"Checkpoint file, binary or textual, to start the header chain from"`
	MetricsListen   string `long:"metricslisten" description:"Serve prometheus metrics and pprof profiles on this address, for example 127.0.0.1:9100"`
	NetworkFlags
}

// Config is the result of LoadConfig.
type Config struct {
	*Flags

	// Command is the checkpointtool command to run.
	Command string

	// MessageFile is the input of the connect command.
	MessageFile string

	// CheckpointOutput is the file the export commands write.
	CheckpointOutput string
}

// LogFile returns the path of the main log file.
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

// ErrLogFile returns the path of the log file that only receives warnings
// and errors.
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, defaultErrLogFilename)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func defaultFlags() *Flags {
	return &Flags{
		AppDir:     DefaultAppDir,
		DebugLevel: defaultLogLevel,
	}
}

// LoadConfig initializes and parses the config using a config file and the
// given command line arguments.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// Command line options always take precedence. A missing config file is
// not an error. The data and log directories default to subdirectories of
// the app directory and are namespaced per network. Exactly one command
// must be given, followed by its arguments.
func LoadConfig(args []string) (*Config, error) {
	// Pre-parse the command line options to see if an alternative config
	// file or app directory was specified. Any errors can be ignored here
	// since they will be caught by the final parse below, which also
	// writes the help message listing the commands.
	preCfg := defaultFlags()
	preParser := flags.NewParser(preCfg, flags.HelpFlag)
	_, _ = preParser.ParseArgs(args)

	appDir := cleanAndExpandPath(preCfg.AppDir)
	configFile := preCfg.ConfigFile
	if configFile == "" {
		configFile = filepath.Join(appDir, defaultConfigFilename)
	}

	// Load additional config from file.
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag|flags.PassDoubleDash)
	commands := &commandConfigs{}
	commands.addCommands(parser)
	err := flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, errors.Wrapf(err, "error parsing config file %s", configFile)
		}
		log.Debugf("Config file %s not loaded: %s", configFile, err)
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(remainingArgs) > 0 {
		return nil, errors.Errorf("unexpected arguments %q for command %s",
			remainingArgs, parser.Active.Name)
	}

	cfg := &Config{Flags: cfgFlags}
	cfg.ConfigFile = configFile
	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)
	commands.apply(parser, cfg)

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	// Append the network name to the data and log directories so they are
	// "namespaced" per network.
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(cfg.AppDir, defaultDataDirname)
	}
	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir), cfg.NetParams().Name)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	}
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir), cfg.NetParams().Name)

	if cfg.CheckpointsFile != "" {
		cfg.CheckpointsFile = cleanAndExpandPath(cfg.CheckpointsFile)
	}

	// Parse, validate, and set debug log level(s).
	err = logger.ParseAndSetLogLevels(cfg.DebugLevel)
	if err != nil {
		return nil, errors.Wrap(err, "LoadConfig")
	}

	return cfg, nil
}
