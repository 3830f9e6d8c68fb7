package config

import (
	"fmt"
	"os"

	"github.com/altcoinj/altcoin/chaincfg"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// Chains selectable with --chain.
const (
	ChainDogecoin = "dogecoin"
	ChainSyscoin  = "syscoin"
)

// NetworkFlags holds the network configuration, that is which chain and
// which of its networks is selected.
type NetworkFlags struct {
	Chain   string `long:"chain" description:"Chain to follow" choice:"dogecoin" choice:"syscoin"`
	Testnet bool   `long:"testnet" description:"Use the test network"`
	Regtest bool   `long:"regtest" description:"Use the regression test network"`

	ActiveNetParams *chaincfg.Params
}

// ResolveNetwork sets ActiveNetParams from the network flags. It returns an
// error if more than one network was selected, or if the selected chain has
// no such network.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	if networkFlags.Testnet && networkFlags.Regtest {
		err := errors.New("The testnet and regtest parameters cannot be used " +
			"together. Please choose only one network")
		fmt.Fprintln(os.Stderr, err)
		if parser != nil {
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	switch networkFlags.Chain {
	case ChainDogecoin, "":
		networkFlags.Chain = ChainDogecoin
		switch {
		case networkFlags.Testnet:
			networkFlags.ActiveNetParams = &chaincfg.DogecoinTestNetParams
		case networkFlags.Regtest:
			networkFlags.ActiveNetParams = &chaincfg.DogecoinRegressionNetParams
		default:
			networkFlags.ActiveNetParams = &chaincfg.DogecoinMainNetParams
		}
	case ChainSyscoin:
		switch {
		case networkFlags.Testnet:
			networkFlags.ActiveNetParams = &chaincfg.SyscoinTestNetParams
		case networkFlags.Regtest:
			return errors.Errorf("chain %s has no regression test network", networkFlags.Chain)
		default:
			networkFlags.ActiveNetParams = &chaincfg.SyscoinMainNetParams
		}
	default:
		return errors.Errorf("unknown chain %q", networkFlags.Chain)
	}

	log.Debugf("Resolved network %s", networkFlags.ActiveNetParams.Name)
	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *chaincfg.Params {
	return networkFlags.ActiveNetParams
}
