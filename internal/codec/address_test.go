package codec

import "testing"

func TestValidateAddress_AcceptsMainnetAndTestnet(t *testing.T) {
	addrs := []string{
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",         // P2PKH mainnet (genesis coinbase address)
		"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy",         // P2SH mainnet
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", // bech32 mainnet (BIP173 vector)
		"mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn",         // P2PKH testnet
		"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", // bech32 testnet (BIP173 vector)
	}
	for _, addr := range addrs {
		if err := validateAddress(addr); err != nil {
			t.Errorf("validateAddress(%q) = %v, want nil", addr, err)
		}
	}
}

func TestValidateAddress_RejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"not-an-address",
		"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN",
		"4J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy",
	}
	for _, addr := range bad {
		if err := validateAddress(addr); err == nil {
			t.Errorf("validateAddress(%q) = nil, want error", addr)
		}
	}
}
