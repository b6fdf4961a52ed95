package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	btcdwire "github.com/btcsuite/btcd/wire"

	"github.com/pkg/errors"
)

// Network identifies a Bitcoin network and selects its chain parameters (MainNet, TestNet, or
// the Scaling Test Network).
type Network uint32

const (
	MainNet       Network = 0xe8f3e1e3
	TestNet       Network = 0xf4f3e5f4
	StressTestNet Network = 0xf9c4cefb
	InvalidNet    Network = 0x00000000
)

// DustLimit is the minimum satoshi value a transaction output may carry. A TxOut constructed
// with a value at or below this is rejected.
const DustLimit = 546

// SegwitTxFlag is the 2 byte marker inserted between the version and the input count of a
// transaction that carries a witness structure.
var SegwitTxFlag = [2]byte{0x00, 0x01}

// ErrSegwitNotSupported is a sentinel for a witness-only operation requested against a network
// whose Params.Segwit is false. Params.RequireSegwit does not return or wrap it; its error names
// the network instead.
var ErrSegwitNotSupported = errors.New("Network does not support witness scripts.")

// Params describes the witness-related parameters that vary between networks. Legacy BSV/BCH
// networks disable SegWit entirely; the prefixes are retained so a network that opts in can be
// described without changing callers.
type Params struct {
	Name         string
	Segwit       bool
	P2WPKHPrefix []byte
	P2WSHPrefix  []byte
	DustLimit    uint64
}

var (
	// LegacyParams describes a network with SegWit support disabled, matching BSV/BCH policy.
	LegacyParams = Params{
		Name:         "mainnet",
		Segwit:       false,
		P2WPKHPrefix: []byte{0x00, 0x14},
		P2WSHPrefix:  []byte{0x00, 0x20},
		DustLimit:    DustLimit,
	}

	// SegwitParams describes a network that opted into BIP-141 witness scripts.
	SegwitParams = Params{
		Name:         "mainnet-segwit",
		Segwit:       true,
		P2WPKHPrefix: []byte{0x00, 0x14},
		P2WSHPrefix:  []byte{0x00, 0x20},
		DustLimit:    DustLimit,
	}
)

// RequireSegwit returns an error unless p enables SegWit.
func (p Params) RequireSegwit() error {
	if !p.Segwit {
		return errors.New(fmt.Sprintf("Network %s does not support witness scripts.", p.Name))
	}
	return nil
}

var (
	// MainNetParams defines the network parameters for the BSV Main Network.
	MainNetParams chaincfg.Params

	// TestNetParams defines the network parameters for the BSV Test Network.
	TestNetParams chaincfg.Params

	// StressTestNetParams defines the network parameters for the BSV Stress Test Network.
	StressTestNetParams chaincfg.Params
)

func NetworkFromString(name string) Network {
	switch name {
	case "mainnet":
		return MainNet
	case "testnet":
		return TestNet
	case "stn":
		return StressTestNet
	}

	return InvalidNet
}

func NetworkName(net Network) string {
	switch net {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	case StressTestNet:
		return "stn"
	}

	return "testnet"
}

// NetworkParams resolves net to this module's own Params descriptor (for transaction
// construction) paired with the registered chaincfg.Params of the same name (for anything that
// still needs standard address encoding or peer-to-peer chain identification). The two stay in
// lockstep: Params.Name is set from the resolved chaincfg.Params.Name rather than duplicated.
func NetworkParams(net Network) (Params, *chaincfg.Params, error) {
	chainParams := NewChainParams(NetworkName(net))
	if chainParams == nil {
		return Params{}, nil, errors.Errorf("Unknown network: %d", net)
	}

	params := LegacyParams
	params.Name = chainParams.Name
	return params, chainParams, nil
}

func NewChainParams(network string) *chaincfg.Params {
	switch network {
	default:
	case "mainnet":
		return &MainNetParams
	case "testnet":
		return &TestNetParams
	case "stn":
		return &StressTestNetParams
	}

	return nil
}

func init() {
	// setup the MainNet params
	MainNetParams = chaincfg.MainNetParams
	MainNetParams.Name = "mainnet"
	MainNetParams.Net = btcdwire.BitcoinNet(MainNet)

	// the params need to be registered to use them.
	if err := chaincfg.Register(&MainNetParams); err != nil {
		fmt.Printf("WARNING failed to register MainNetParams")
	}

	// setup the TestNet params
	TestNetParams = chaincfg.TestNet3Params
	TestNetParams.Name = "testnet"
	TestNetParams.Net = btcdwire.BitcoinNet(TestNet)

	if err := chaincfg.Register(&TestNetParams); err != nil {
		fmt.Printf("WARNING failed to register TestNetParams")
	}

	// setup the STN params
	StressTestNetParams = chaincfg.TestNet3Params
	StressTestNetParams.Name = "stn"
	StressTestNetParams.Net = btcdwire.BitcoinNet(StressTestNet)

	if err := chaincfg.Register(&StressTestNetParams); err != nil {
		fmt.Printf("WARNING failed to register StressTestNetParams")
	}
}
