package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/altcoinj/altcoin/chaincfg"
)

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		name     string
		flags    NetworkFlags
		expected *chaincfg.Params
		isErr    bool
	}{
		{name: "default", expected: &chaincfg.DogecoinMainNetParams},
		{name: "dogecoin testnet", flags: NetworkFlags{Chain: ChainDogecoin, Testnet: true},
			expected: &chaincfg.DogecoinTestNetParams},
		{name: "dogecoin regtest", flags: NetworkFlags{Regtest: true},
			expected: &chaincfg.DogecoinRegressionNetParams},
		{name: "syscoin", flags: NetworkFlags{Chain: ChainSyscoin},
			expected: &chaincfg.SyscoinMainNetParams},
		{name: "syscoin testnet", flags: NetworkFlags{Chain: ChainSyscoin, Testnet: true},
			expected: &chaincfg.SyscoinTestNetParams},
		{name: "syscoin regtest", flags: NetworkFlags{Chain: ChainSyscoin, Regtest: true}, isErr: true},
		{name: "two networks", flags: NetworkFlags{Testnet: true, Regtest: true}, isErr: true},
		{name: "unknown chain", flags: NetworkFlags{Chain: "litecoin"}, isErr: true},
	}

	for _, test := range tests {
		networkFlags := test.flags
		err := networkFlags.ResolveNetwork(nil)
		if test.isErr {
			if err == nil {
				t.Errorf("%s: expected an error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.name, err)
			continue
		}
		if networkFlags.NetParams() != test.expected {
			t.Errorf("%s: got network %s, want %s", test.name,
				networkFlags.NetParams().Name, test.expected.Name)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	appDir := t.TempDir()
	cfg, err := LoadConfig([]string{"--appdir", appDir, HeadCmd})
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	if cfg.Command != HeadCmd {
		t.Errorf("got command %q, want %q", cfg.Command, HeadCmd)
	}
	if cfg.NetParams() != &chaincfg.DogecoinMainNetParams {
		t.Errorf("unexpected network %s", cfg.NetParams().Name)
	}
	expectedDataDir := filepath.Join(appDir, defaultDataDirname, "dogecoin-mainnet")
	if cfg.DataDir != expectedDataDir {
		t.Errorf("got data dir %s, want %s", cfg.DataDir, expectedDataDir)
	}
	expectedLogFile := filepath.Join(appDir, defaultLogDirname, "dogecoin-mainnet", defaultLogFilename)
	if cfg.LogFile() != expectedLogFile {
		t.Errorf("got log file %s, want %s", cfg.LogFile(), expectedLogFile)
	}
	if cfg.ConfigFile != filepath.Join(appDir, defaultConfigFilename) {
		t.Errorf("unexpected config file %s", cfg.ConfigFile)
	}
}

func TestLoadConfigFile(t *testing.T) {
	appDir := t.TempDir()
	content := "[Application Options]\nchain=syscoin\ntestnet=1\ncheckpoints=/tmp/syscoin.checkpoints\n"
	err := os.WriteFile(filepath.Join(appDir, defaultConfigFilename), []byte(content), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	cfg, err := LoadConfig([]string{"--appdir", appDir, SeedCmd})
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	if cfg.NetParams() != &chaincfg.SyscoinTestNetParams {
		t.Errorf("config file: unexpected network %s", cfg.NetParams().Name)
	}
	if cfg.CheckpointsFile != "/tmp/syscoin.checkpoints" {
		t.Errorf("config file: unexpected checkpoints file %s", cfg.CheckpointsFile)
	}

	// The command line takes precedence over the config file.
	cfg, err = LoadConfig([]string{"--appdir", appDir, "--chain", "dogecoin", SeedCmd})
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
	if cfg.NetParams() != &chaincfg.DogecoinTestNetParams {
		t.Errorf("command line: unexpected network %s", cfg.NetParams().Name)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	appDir := t.TempDir()
	badConfig := filepath.Join(appDir, "bad.conf")
	err := os.WriteFile(badConfig, []byte("[Application Options]\nnosuchoption=1\n"), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"--appdir", appDir, "--loglevel", "loud", HeadCmd}},
		{"bad subsystem", []string{"--appdir", appDir, "--loglevel", "NOPE=info", HeadCmd}},
		{"bad chain", []string{"--appdir", appDir, "--chain", "litecoin", HeadCmd}},
		{"two networks", []string{"--appdir", appDir, "--testnet", "--regtest", HeadCmd}},
		{"unknown flag", []string{"--appdir", appDir, "--nosuchflag", HeadCmd}},
		{"bad config file", []string{"--appdir", appDir, "--configfile", badConfig, HeadCmd}},
		{"no command", []string{"--appdir", appDir}},
		{"unknown command", []string{"--appdir", appDir, "frobnicate"}},
		{"connect without a file", []string{"--appdir", appDir, ConnectCmd}},
		{"export without a file", []string{"--appdir", appDir, ExportCmd}},
		{"extra argument", []string{"--appdir", appDir, SeedCmd, "extra"}},
		{"two files", []string{"--appdir", appDir, ExportTextCmd, "a.txt", "b.txt"}},
	}
	for _, test := range tests {
		_, err := LoadConfig(test.args)
		if err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}

	// Restore the default level for the rest of the package's tests.
	_, err = LoadConfig([]string{"--appdir", appDir, HeadCmd})
	if err != nil {
		t.Fatalf("LoadConfig: %s", err)
	}
}

func TestLoadConfigCommands(t *testing.T) {
	appDir := t.TempDir()
	messageFile := filepath.Join(appDir, "headers.bin")
	checkpointFile := filepath.Join(appDir, "out.checkpoints")

	tests := []struct {
		args             []string
		command          string
		messageFile      string
		checkpointOutput string
	}{
		{args: []string{SeedCmd}, command: SeedCmd},
		{args: []string{HeadCmd}, command: HeadCmd},
		{args: []string{ConnectCmd, messageFile}, command: ConnectCmd, messageFile: messageFile},
		{args: []string{ExportCmd, checkpointFile}, command: ExportCmd, checkpointOutput: checkpointFile},
		{args: []string{ExportTextCmd, checkpointFile}, command: ExportTextCmd,
			checkpointOutput: checkpointFile},
	}
	for _, test := range tests {
		cfg, err := LoadConfig(append([]string{"--appdir", appDir}, test.args...))
		if err != nil {
			t.Errorf("%v: LoadConfig: %s", test.args, err)
			continue
		}
		if cfg.Command != test.command {
			t.Errorf("%v: got command %q, want %q", test.args, cfg.Command, test.command)
		}
		if cfg.MessageFile != test.messageFile {
			t.Errorf("%v: got message file %q, want %q", test.args, cfg.MessageFile, test.messageFile)
		}
		if cfg.CheckpointOutput != test.checkpointOutput {
			t.Errorf("%v: got checkpoint output %q, want %q", test.args,
				cfg.CheckpointOutput, test.checkpointOutput)
		}
	}
}
