package config

import (
	"testing"
)

func TestValidate_ValidMainnet(t *testing.T) {
	cfg := &Config{
 Network: "mainnet",
 Port: 8080,
 JSONDir: "./Json",
	}
	if err := cfg.Validate(); err != nil {
 t.Fatalf("Validate error = %v, want nil", err)
	}
}

func TestValidate_ValidTestnet(t *testing.T) {
	cfg := &Config{
 Network: "testnet",
 Port: 8080,
 JSONDir: "./Json",
	}
	if err := cfg.Validate(); err != nil {
 t.Fatalf("Validate error = %v, want nil", err)
	}
}

func TestValidate_InvalidNetwork(t *testing.T) {
	tests := []struct {
 name string
 network string
	}{
 {"empty", ""},
 {"foobar", "foobar"},
 {"Mainnet case sensitive", "Mainnet"},
 {"devnet", "devnet"},
	}

	for _, tt := range tests {
 t.Run(tt.name, func(t *testing.T) {
 cfg := &Config{
 Network: tt.network,
 Port: 8080,
 JSONDir: "./Json",
 }
 err := cfg.Validate()
 if err == nil {
 t.Fatalf("Validate expected error for network=%q, got nil", tt.network)
 }
 })
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	tests := []struct {
 name string
 port int
	}{
 {"zero", 0},
 {"negative", -1},
 {"too high", 65536},
 {"way too high", 100000},
	}

	for _, tt := range tests {
 t.Run(tt.name, func(t *testing.T) {
 cfg := &Config{
 Network: "testnet",
 Port: tt.port,
 JSONDir: "./Json",
 }
 err := cfg.Validate()
 if err == nil {
 t.Fatalf("Validate expected error for port=%d, got nil", tt.port)
 }
 })
	}
}

func TestValidate_InvalidJSONDir(t *testing.T) {
	cfg := &Config{
 Network: "testnet",
 Port: 8080,
 JSONDir: "",
	}
	if err := cfg.Validate(); err == nil {
 t.Fatalf("Validate expected error for empty JSONDir, got nil")
	}
}

func TestValidate_ValidPortBoundaries(t *testing.T) {
	tests := []struct {
 name string
 port int
	}{
 {"minimum valid", 1},
 {"maximum valid", 65535},
 {"common port", 3000},
	}

	for _, tt := range tests {
 t.Run(tt.name, func(t *testing.T) {
 cfg := &Config{
 Network: "testnet",
 Port: tt.port,
 JSONDir: "./Json",
 }
 if err := cfg.Validate(); err != nil {
 t.Fatalf("Validate error = %v for port=%d, want nil", err, tt.port)
 }
 })
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := Config{}

	cfg.Network = "testnet"
	cfg.Port = 8080
	cfg.JSONDir = "./Json"
	cfg.LogLevel = "info"
	cfg.LogDir = "./logs"

	if err := cfg.Validate(); err != nil {
 t.Fatalf("Validate on default-like config: %v", err)
	}
}
