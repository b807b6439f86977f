package contract

import (
	"errors"
	"testing"

	"github.com/scl-host/sclindexer/internal/config"
)

func TestTransfer_InsufficientBalance(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	err := c.Transfer("B", []string{"A:0"}, []UTXOAmount{{UTXO: "B:0", Amount: 2000}}, 1)
	if !errors.Is(err, config.ErrInsufficientBalance) {
 t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTransfer_Idempotent(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	c.Transfer("B", []string{"A:0"}, []UTXOAmount{{UTXO: "B:0", Amount: 1000}}, 1)
	c.RecordPayload("B", "p")

	before := c.Owners["B:0"]
	if err := c.Transfer("B", []string{"A:0"}, []UTXOAmount{{UTXO: "B:0", Amount: 1000}}, 1); err != nil {
 t.Fatalf("repeated Transfer error = %v", err)
	}
	if c.Owners["B:0"] != before {
 t.Fatalf("expected idempotent no-op, balance changed from %d to %d", before, c.Owners["B:0"])
	}
}

func TestTransfer_MigratesDripsToLastReceiverWithResidual(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	if err := c.StartDrip("drip1", []string{"A:0"}, []DripReceiver{{UTXO: "S:0", Amount: 100, Duration: 10}}, "", 100); err != nil {
 t.Fatalf("StartDrip error = %v", err)
	}
	// S:0 now holds 10 (first block credited) plus whatever else it was given.
	c.Owners["S:0"] += 0

	if err := c.Transfer("B", []string{"S:0"}, []UTXOAmount{{UTXO: "R:0", Amount: 5}}, 105); err != nil {
 t.Fatalf("Transfer error = %v", err)
	}
	if _, ok := c.Drips["S:0"]; ok {
 t.Fatalf("expected drip migrated off sender")
	}
	if _, ok := c.Drips["R:0"]; !ok {
 t.Fatalf("expected drip migrated onto last receiver")
	}
}

func TestBurn_CreditsChangeAndDecrementsSupply(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	if err := c.Burn("B", []string{"A:0"}, 300, "B:0"); err != nil {
 t.Fatalf("Burn error = %v", err)
	}
	if c.Supply != 700 {
 t.Fatalf("expected supply 700, got %d", c.Supply)
	}
	if c.Owners["B:0"] != 700 {
 t.Fatalf("expected change credited, got %+v", c.Owners)
	}
}

func TestBurn_InsufficientBalance(t *testing.T) {
	c := MintSCL01("A", "TKR", 1000, 0, "A:0")
	err := c.Burn("B", []string{"A:0"}, 2000, "B:0")
	if !errors.Is(err, config.ErrInsufficientBalance) {
 t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}
