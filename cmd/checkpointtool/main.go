// Command checkpointtool maintains a header chain database for an altcoin
// network and builds checkpoint files from it.
//
// Usage:
//
//	checkpointtool [options] seed
//	checkpointtool [options] connect <messagefile>
//	checkpointtool [options] head
//	checkpointtool [options] export <checkpointfile>
//	checkpointtool [options] export-text <checkpointfile>
//
// seed starts the chain from the configured checkpoint file, or from the
// genesis block. connect reads a file of framed network messages, such as
// a capture of a peer connection, and connects the headers it carries.
// export writes a checkpoint at every retarget boundary of the chain.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/altcoinj/altcoin/blockstore"
	"github.com/altcoinj/altcoin/infrastructure/config"
	"github.com/altcoinj/altcoin/infrastructure/logger"
	"github.com/altcoinj/altcoin/util/profiling"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.InitLog(cfg.LogFile(), cfg.ErrLogFile())
	err = run(cfg)
	logger.BackendLog.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.MetricsListen != "" {
		profiling.Start(cfg.MetricsListen, log)
	}

	store, err := blockstore.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	params := cfg.NetParams()
	now := time.Now()
	switch cfg.Command {
	case config.SeedCmd:
		_, err := seedChain(store, params, cfg.CheckpointsFile, now)
		return err

	case config.ConnectCmd:
		file, err := os.Open(cfg.MessageFile)
		if err != nil {
			return errors.WithStack(err)
		}
		defer file.Close()
		connected, err := connectHeaders(store, params, file)
		log.Infof("Connected %d headers", connected)
		return err

	case config.HeadCmd:
		head, err := store.ChainHead()
		if err != nil {
			return err
		}
		fmt.Printf("%s %d %s %s\n", params.Name, head.Height, head.Hash(), head.ChainWork)
		return nil

	case config.ExportCmd, config.ExportTextCmd:
		file, err := os.Create(cfg.CheckpointOutput)
		if err != nil {
			return errors.WithStack(err)
		}
		count, dataHash, err := exportCheckpoints(store, params, file,
			cfg.Command == config.ExportTextCmd, now)
		if err != nil {
			file.Close()
			return err
		}
		err = file.Close()
		if err != nil {
			return errors.WithStack(err)
		}
		fmt.Printf("Wrote %d checkpoints, data hash %s\n", count, dataHash)
		return nil
	}
	return errors.Errorf("unknown command %q", cfg.Command)
}
