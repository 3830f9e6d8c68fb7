// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"sort"
	"time"

	"github.com/altcoinj/altcoin/util/hashes"
	"github.com/altcoinj/altcoin/wire"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// These variables are the proof-of-work limit parameters for each default
// network, in their compact form.
const (
	// dogecoinPowLimitBits is 2^236 - 1 for the Dogecoin main and test
	// networks.
	dogecoinPowLimitBits = 0x1e0fffff

	// regressionPowLimitBits is 2^255 - 1 for the regression test network.
	regressionPowLimitBits = 0x207fffff

	syscoinPowLimitBits = 0x1e0fffff
)

// Protocol versions spoken by the default networks.
const (
	// DogecoinProtocolVersion is the first Dogecoin protocol version that
	// relays merged mined blocks.
	DogecoinProtocolVersion uint32 = 70004

	SyscoinProtocolVersion uint32 = 70015
)

// Merged mining chain IDs of the default networks.
const (
	DogecoinChainID int32 = 0x0062
	SyscoinChainID  int32 = 0x1000
)

var (
	dogecoinAuxPoWPolicy = wire.AuxPoWVersionPolicy{MinVersion: 0x00620002, Flag: wire.BlockVersionAuxPoW}
	syscoinAuxPoWPolicy  = wire.AuxPoWVersionPolicy{MinVersion: 0, Flag: wire.BlockVersionAuxPoW}
)

// Checkpoint identifies a known good point in the block chain. Using
// checkpoints allows a few optimizations for old blocks during initial
// download and also prevents forks from old blocks.
type Checkpoint struct {
	Height int32
	Hash   *chainhash.Hash
}

// PoWFunction hashes a serialized block header for its proof of work check.
type PoWFunction func(header []byte) chainhash.Hash

// Params defines an altcoin network by its parameters. These parameters may
// be used by applications to differentiate networks as well as to validate
// headers received from one of them.
//
// Params implements wire.ChainRules.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net btcwire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DNSSeeds defines a list of DNS seeds for the network that are used
	// as one method to discover peers.
	DNSSeeds []string

	// GenesisHeader is the header of the first block of the chain. It is
	// nil for networks whose genesis block is only pinned by hash.
	GenesisHeader *wire.BlockHeader

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// TargetTimespan is the desired amount of time that should elapse
	// before the block difficulty requirement is examined to determine how
	// it should be changed in order to maintain the desired block
	// generation rate.
	TargetTimespan time.Duration

	// TargetTimePerBlock is the desired amount of time to generate each
	// block.
	TargetTimePerBlock time.Duration

	// RetargetAdjustmentFactor is the adjustment factor used to limit
	// the minimum and maximum amount of adjustment that can occur between
	// difficulty retargets.
	RetargetAdjustmentFactor int64

	// ReduceMinDifficulty defines whether the network should reduce the
	// minimum required difficulty after a long enough period of time has
	// passed without finding a block.
	ReduceMinDifficulty bool

	// MinDiffReductionTime is the amount of time after which the minimum
	// required difficulty should be reduced when a block hasn't been found.
	//
	// NOTE: This only applies if ReduceMinDifficulty is true.
	MinDiffReductionTime time.Duration

	// NoRetargeting keeps the difficulty of the genesis block forever.
	NoRetargeting bool

	// ChainID is the merged mining chain ID carried in block versions.
	ChainID int32

	// AuxPoWPolicy decides which block versions carry an AuxPoW.
	AuxPoWPolicy wire.AuxPoWVersionPolicy

	// StrictChainID rejects merged mined blocks whose version carries a
	// chain ID other than ChainID, and AuxPoWs whose parent block carries
	// ChainID.
	StrictChainID bool

	// PoWFunction is the proof of work hash of block headers.
	PoWFunction PoWFunction

	// ProtocolVersion is the protocol version spoken on the network.
	ProtocolVersion uint32

	// Checkpoints ordered from oldest to newest.
	Checkpoints []Checkpoint

	// MessageTable maps the commands understood on the network to their
	// messages.
	MessageTable *wire.MessageTable
}

// AuxPoWVersion returns whether a block of the given version carries an
// AuxPoW on this network.
func (p *Params) AuxPoWVersion(version int32) bool {
	return p.AuxPoWPolicy.IsAuxPoW(version)
}

// AuxPoWChainID returns the merged mining chain ID of the network.
func (p *Params) AuxPoWChainID() int32 {
	return p.ChainID
}

// StrictAuxPoWChainID returns whether chain IDs are enforced.
func (p *Params) StrictAuxPoWChainID() bool {
	return p.StrictChainID
}

// PoWHash hashes a serialized block header with the network's proof of work
// function.
func (p *Params) PoWHash(header []byte) chainhash.Hash {
	return p.PoWFunction(header)
}

// MaxTarget returns the easiest target a block may claim.
func (p *Params) MaxTarget() *big.Int {
	return p.PowLimit
}

// BlocksPerRetarget returns the number of blocks between difficulty
// transitions.
func (p *Params) BlocksPerRetarget() int32 {
	return int32(p.TargetTimespan / p.TargetTimePerBlock)
}

// CheckpointAt returns the checkpoint hash at height, if there is one.
func (p *Params) CheckpointAt(height int32) (*chainhash.Hash, bool) {
	i := sort.Search(len(p.Checkpoints), func(i int) bool {
		return p.Checkpoints[i].Height >= height
	})
	if i < len(p.Checkpoints) && p.Checkpoints[i].Height == height {
		return p.Checkpoints[i].Hash, true
	}
	return nil, false
}

// LatestCheckpoint returns the most recent checkpoint, or nil if the
// network has none.
func (p *Params) LatestCheckpoint() *Checkpoint {
	if len(p.Checkpoints) == 0 {
		return nil
	}
	return &p.Checkpoints[len(p.Checkpoints)-1]
}

// DogecoinMainNetParams defines the network parameters for the main Dogecoin
// network.
var DogecoinMainNetParams = Params{
	Name:        "dogecoin-mainnet",
	Net:         0xc0c0c0c0,
	DefaultPort: "22556",
	DNSSeeds:    []string{"seed.multidoge.org", "seed2.multidoge.org"},

	// Chain parameters
	GenesisHeader:            &dogecoinGenesisHeader,
	GenesisHash:              dogecoinGenesisHash,
	PowLimit:                 blockchain.CompactToBig(dogecoinPowLimitBits),
	PowLimitBits:             dogecoinPowLimitBits,
	TargetTimespan:           time.Hour * 4,
	TargetTimePerBlock:       time.Minute,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      false,

	// Merged mining
	ChainID:       DogecoinChainID,
	AuxPoWPolicy:  dogecoinAuxPoWPolicy,
	StrictChainID: true,

	PoWFunction:     hashes.ScryptHash,
	ProtocolVersion: DogecoinProtocolVersion,
	MessageTable:    wire.BaseMessageTable(dogecoinAuxPoWPolicy),
}

// DogecoinTestNetParams defines the network parameters for the Dogecoin test
// network.
var DogecoinTestNetParams = Params{
	Name:        "dogecoin-testnet",
	Net:         0xdcb7c1fc,
	DefaultPort: "44556",
	DNSSeeds:    []string{"testseed.jrn.me.uk"},

	// Chain parameters
	GenesisHeader:            &dogecoinTestNetGenesisHeader,
	GenesisHash:              dogecoinTestNetGenesisHash,
	PowLimit:                 blockchain.CompactToBig(dogecoinPowLimitBits),
	PowLimitBits:             dogecoinPowLimitBits,
	TargetTimespan:           time.Hour * 4,
	TargetTimePerBlock:       time.Minute,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      true,
	MinDiffReductionTime:     time.Minute * 2, // TargetTimePerBlock * 2

	// Merged mining
	ChainID:       DogecoinChainID,
	AuxPoWPolicy:  dogecoinAuxPoWPolicy,
	StrictChainID: false,

	PoWFunction:     hashes.ScryptHash,
	ProtocolVersion: DogecoinProtocolVersion,
	MessageTable:    wire.BaseMessageTable(dogecoinAuxPoWPolicy),
}

// DogecoinRegressionNetParams defines the network parameters for the Dogecoin
// regression test network.
var DogecoinRegressionNetParams = Params{
	Name:        "dogecoin-regtest",
	Net:         0xdab5bffa,
	DefaultPort: "18444",
	DNSSeeds:    []string{}, // NOTE: There must NOT be any seeds.

	// Chain parameters
	GenesisHash:              dogecoinRegTestGenesisHash,
	PowLimit:                 blockchain.CompactToBig(regressionPowLimitBits),
	PowLimitBits:             regressionPowLimitBits,
	TargetTimespan:           time.Hour * 4,
	TargetTimePerBlock:       time.Minute,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      true,
	MinDiffReductionTime:     time.Minute * 2,
	NoRetargeting:            true,

	// Merged mining
	ChainID:       DogecoinChainID,
	AuxPoWPolicy:  dogecoinAuxPoWPolicy,
	StrictChainID: true,

	PoWFunction:     hashes.ScryptHash,
	ProtocolVersion: DogecoinProtocolVersion,
	MessageTable:    wire.BaseMessageTable(dogecoinAuxPoWPolicy),
}

// SyscoinMainNetParams defines the network parameters for the main Syscoin
// network.
var SyscoinMainNetParams = Params{
	Name:        "syscoin-mainnet",
	Net:         0xffcae2ce,
	DefaultPort: "8369",
	DNSSeeds: []string{
		"seed1.syscoin.org",
		"seed2.syscoin.org",
		"seed3.syscoin.org",
		"seed4.syscoin.org",
	},

	// Chain parameters
	GenesisHash:              syscoinGenesisHash,
	PowLimit:                 blockchain.CompactToBig(syscoinPowLimitBits),
	PowLimitBits:             syscoinPowLimitBits,
	TargetTimespan:           time.Hour * 6,
	TargetTimePerBlock:       time.Minute,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      false,

	// Checkpoints ordered from oldest to newest.
	Checkpoints: []Checkpoint{
		{0, newHashFromStr("0000022642db0346b6e01c2a397471f4f12e65d4f4251ec96c1f85367a61a7ab")},
		{250, newHashFromStr("00000c9ec0f9d60ce297bf9f9cbe1f2eb39165a0d3f69c1c55fc3f6680fe45c8")},
		{5000, newHashFromStr("eef3554a3f467bcdc7570f799cecdb262058cecf34d555827c99b5719b1df4f6")},
		{10000, newHashFromStr("e44257e8e027e8a67fd647c54e1bd6976988d75b416affabe3f82fd87a67f5ff")},
		{40000, newHashFromStr("4ad1ec207d62fa91485335feaf890150a0f4cf48c39b11e3dbfc22bdecc29dbc")},
		{100000, newHashFromStr("a54904302fd6fd0ee561cb894f15ad8c21c2601b305ffa9e15ef00df1c50db16")},
		{150000, newHashFromStr("73850eb99a6c32b4bfd67a26a7466ce3d0b4412d4174590c501e567c99f038fd")},
		{200000, newHashFromStr("a28fe36c63acb38065dadf09d74de5fdc1dac6433c204b215b37bab312dfab0d")},
		{240000, newHashFromStr("906918ba0cbfbd6e4e4e00d7d47d08bef3e409f47b59cb5bd3303f5276b88f0f")},
		{280000, newHashFromStr("651375427865345d37a090ca561c1ed135c6b8dafa591a59f2abf1eb26dfd538")},
		{292956, newHashFromStr("ae6dca1b9dd7adcb8a11c8ea7f9fe72bb47ff6e4156e1d172e2a8612b18a319d")},
		{350000, newHashFromStr("02501c7feba858c83e005acbf0505a892081288dcf7a8a37bd4fc47d7c24c799")},
		{390000, newHashFromStr("8654451a7ed5286ba5c830cdf6e65cbbd7a77f650216541bfbe50af04933741b")},
		{391285, newHashFromStr("76d13e8f08c2b7027251484078f734f91c485727031be6b4c21c42d5e103d0ad")},
	},

	// Merged mining
	ChainID:       SyscoinChainID,
	AuxPoWPolicy:  syscoinAuxPoWPolicy,
	StrictChainID: true,

	PoWFunction:     hashes.DoubleSHA256Hash,
	ProtocolVersion: SyscoinProtocolVersion,
	MessageTable:    wire.SyscoinMessageTable(syscoinAuxPoWPolicy),
}

// SyscoinTestNetParams defines the network parameters for the Syscoin test
// network.
var SyscoinTestNetParams = Params{
	Name:        "syscoin-testnet",
	Net:         0x4d3c2b1a,
	DefaultPort: "9903",
	DNSSeeds:    []string{},

	// Chain parameters
	GenesisHash:              syscoinTestNetGenesisHash,
	PowLimit:                 blockchain.CompactToBig(syscoinPowLimitBits),
	PowLimitBits:             syscoinPowLimitBits,
	TargetTimespan:           time.Hour * 6,
	TargetTimePerBlock:       time.Minute,
	RetargetAdjustmentFactor: 4,
	ReduceMinDifficulty:      true,
	MinDiffReductionTime:     time.Minute * 20, // TargetTimePerBlock * 20

	// Merged mining
	ChainID:       SyscoinChainID,
	AuxPoWPolicy:  syscoinAuxPoWPolicy,
	StrictChainID: true,

	PoWFunction:     hashes.DoubleSHA256Hash,
	ProtocolVersion: SyscoinProtocolVersion,
	MessageTable:    wire.SyscoinMessageTable(syscoinAuxPoWPolicy),
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where the parameters for a network
	// were looked up before being registered.
	ErrUnknownNet = errors.New("unknown network")
)

var (
	registeredNets  = make(map[btcwire.BitcoinNet]*Params)
	registeredNames = make(map[string]*Params)
)

// Register registers the network parameters for a network. This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks),
// or if its name is already taken.
//
// Network parameters should be registered into this package by a main package
// as early as possible. Then, library packages may lookup networks or network
// parameters based on inputs and work regardless of the network being standard
// or not.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return errors.Wrapf(ErrDuplicateNet, "magic %s", params.Net)
	}
	if _, ok := registeredNames[params.Name]; ok {
		return errors.Wrapf(ErrDuplicateNet, "name %s", params.Name)
	}
	registeredNets[params.Net] = params
	registeredNames[params.Name] = params

	log.Debugf("Registered network %s (magic %s)", params.Name, params.Net)
	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ParamsForNet returns the registered parameters of the network identified
// by its magic bytes.
func ParamsForNet(net btcwire.BitcoinNet) (*Params, error) {
	params, ok := registeredNets[net]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "magic %s", net)
	}
	return params, nil
}

// ParamsByName returns the registered parameters of the named network.
func ParamsByName(name string) (*Params, error) {
	params, ok := registeredNames[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "name %s", name)
	}
	return params, nil
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash. It only differs from the one available in chainhash in that
// it panics on an error since it will only (and must only) be called with
// hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}
	return hash
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&DogecoinMainNetParams)
	mustRegister(&DogecoinTestNetParams)
	mustRegister(&DogecoinRegressionNetParams)
	mustRegister(&SyscoinMainNetParams)
	mustRegister(&SyscoinTestNetParams)
}
