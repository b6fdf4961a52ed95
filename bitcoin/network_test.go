package bitcoin

import (
	"testing"
)

func TestNetworkParamsRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		net  Network
	}{
		{"mainnet", MainNet},
		{"testnet", TestNet},
		{"stn", StressTestNet},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NetworkFromString(c.name); got != c.net {
				t.Fatalf("NetworkFromString(%q) = %v, want %v", c.name, got, c.net)
			}

			params, chainParams, err := NetworkParams(c.net)
			if err != nil {
				t.Fatalf("NetworkParams: %s", err)
			}
			if chainParams.Name != c.name {
				t.Fatalf("got chain params name %q, want %q", chainParams.Name, c.name)
			}
			if params.Name != c.name {
				t.Fatalf("got params name %q, want %q", params.Name, c.name)
			}
			if params.Segwit {
				t.Fatal("BSV-derived networks must not advertise segwit support")
			}
		})
	}
}

func TestNetworkFromStringRejectsUnknown(t *testing.T) {
	if got := NetworkFromString("not-a-network"); got != InvalidNet {
		t.Fatalf("got %v, want InvalidNet", got)
	}
}

func TestNetworkNameDefaultsUnknownToTestnet(t *testing.T) {
	if got := NetworkName(InvalidNet); got != "testnet" {
		t.Fatalf("got %q, want %q", got, "testnet")
	}
}

func TestNewChainParamsRejectsUnregisteredName(t *testing.T) {
	if got := NewChainParams("not-a-network"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
