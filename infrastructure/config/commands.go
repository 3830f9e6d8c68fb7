package config

import (
	"github.com/jessevdk/go-flags"
)

// Commands of checkpointtool.
const (
	SeedCmd       = "seed"
	ConnectCmd    = "connect"
	HeadCmd       = "head"
	ExportCmd     = "export"
	ExportTextCmd = "export-text"
)

type seedConfig struct{}

type headConfig struct{}

type connectConfig struct {
	Args struct {
		MessageFile string `positional-arg-name:"messagefile" description:"File of framed network messages"`
	} `positional-args:"yes" required:"yes"`
}

type exportConfig struct {
	Args struct {
		CheckpointFile string `positional-arg-name:"checkpointfile" description:"Checkpoint file to write"`
	} `positional-args:"yes" required:"yes"`
}

// commandConfigs holds the arguments of every command while parsing.
type commandConfigs struct {
	seed       seedConfig
	connect    connectConfig
	head       headConfig
	export     exportConfig
	exportText exportConfig
}

func (c *commandConfigs) addCommands(parser *flags.Parser) {
	parser.AddCommand(SeedCmd, "Start the header chain",
		"Stores the checkpoint a week older than now from --checkpoints, or the genesis block, as the chain head", &c.seed)
	parser.AddCommand(ConnectCmd, "Connect headers from a message file",
		"Reads framed network messages and connects the headers of every headers message to the chain", &c.connect)
	parser.AddCommand(HeadCmd, "Show the chain head",
		"Prints the network, height, hash and chain work of the chain head", &c.head)
	parser.AddCommand(ExportCmd, "Write a binary checkpoint file",
		"Writes a checkpoint at every retarget boundary at least 30 days old", &c.export)
	parser.AddCommand(ExportTextCmd, "Write a text checkpoint file",
		"Writes a checkpoint at every retarget boundary at least 30 days old, base64 encoded", &c.exportText)
}

// apply copies the arguments of the active command into cfg.
func (c *commandConfigs) apply(parser *flags.Parser, cfg *Config) {
	cfg.Command = parser.Active.Name
	switch cfg.Command {
	case ConnectCmd:
		cfg.MessageFile = cleanAndExpandPath(c.connect.Args.MessageFile)
	case ExportCmd:
		cfg.CheckpointOutput = cleanAndExpandPath(c.export.Args.CheckpointFile)
	case ExportTextCmd:
		cfg.CheckpointOutput = cleanAndExpandPath(c.exportText.Args.CheckpointFile)
	}
}
