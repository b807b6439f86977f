package codec

import (
	"errors"
	"testing"

	"github.com/scl-host/sclindexer/internal/config"
)

func TestParse_MintSCL01(t *testing.T) {
	cmd, err := Parse("txid123", "{SCL01:[TICK,21000000,8,txid123:0]}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	mint, ok := cmd.(MintSCL01)
	if !ok {
 t.Fatalf("expected MintSCL01, got %T", cmd)
	}
	if mint.Ticker != "TICK" || mint.MaxSupply != 21000000 || mint.Decimals != 8 || mint.ReceiveUTXO != "txid123:0" {
 t.Fatalf("unexpected fields: %+v", mint)
	}
}

func TestParse_TXIDSubstitution(t *testing.T) {
	cmd, err := Parse("abc111", "{SCL01:[TICK,1000,0,TXID:1]}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	mint := cmd.(MintSCL01)
	if mint.ReceiveUTXO != "abc111:1" {
 t.Fatalf("expected TXID substitution, got %q", mint.ReceiveUTXO)
	}
}

func TestParse_Transfer(t *testing.T) {
	cmd, err := Parse("", "{contractabc:TRANSFER[u1:0,u2:1],[u3:0(100),u4:1(200)]}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	tr, ok := cmd.(Transfer)
	if !ok {
 t.Fatalf("expected Transfer, got %T", cmd)
	}
	if tr.ContractID != "contractabc" {
 t.Fatalf("unexpected contract id: %s", tr.ContractID)
	}
	if len(tr.Senders) != 2 || tr.Senders[0] != "u1:0" || tr.Senders[1] != "u2:1" {
 t.Fatalf("unexpected senders: %+v", tr.Senders)
	}
	if len(tr.Receivers) != 2 || tr.Receivers[0].UTXO != "u3:0" || tr.Receivers[0].Amount != 100 {
 t.Fatalf("unexpected receivers: %+v", tr.Receivers)
	}
}

func TestParse_Burn(t *testing.T) {
	cmd, err := Parse("", "{cid:BURN[u1:0],500,change:0}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	b := cmd.(Burn)
	if b.Amount != 500 || b.ChangeUTXO != "change:0" {
 t.Fatalf("unexpected burn: %+v", b)
	}
}

func TestParse_CancelListing_SpaceSeparatedArgs(t *testing.T) {
	cmd, err := Parse("", "{cid:CANCELLISTING list_utxo:0}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	cl := cmd.(CancelListing)
	if cl.ListUTXO != "list_utxo:0" {
 t.Fatalf("unexpected list utxo: %s", cl.ListUTXO)
	}
}

func TestParse_Bid_MultipleTuples(t *testing.T) {
	cmd, err := Parse("", "{cid:BID[order1,100,5000,res1:0],[order2,50,6000,res2:0]}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	bid := cmd.(Bid)
	if len(bid.Bids) != 2 {
 t.Fatalf("expected 2 bids, got %d", len(bid.Bids))
	}
	if bid.Bids[0].OrderID != "order1" || bid.Bids[0].Amount != 100 || bid.Bids[0].Price != 5000 {
 t.Fatalf("unexpected first bid: %+v", bid.Bids[0])
	}
}

func TestParse_Drip(t *testing.T) {
	cmd, err := Parse("", "{cid:DRIP[u1:0],[r1:0(1000,100)],change:0}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	d := cmd.(Drip)
	if len(d.Receivers) != 1 || d.Receivers[0].Amount != 1000 || d.Receivers[0].Duration != 100 {
 t.Fatalf("unexpected drip: %+v", d)
	}
}

func TestParse_Airdrop(t *testing.T) {
	cmd, err := Parse("", "{cid:AIRDROP rcv:0}")
	if err != nil {
 t.Fatalf("Parse error = %v", err)
	}
	ac := cmd.(AirdropClaim)
	if ac.ReceiverUTXO != "rcv:0" {
 t.Fatalf("unexpected receiver: %s", ac.ReceiverUTXO)
	}
}

func TestParse_MissingBraces(t *testing.T) {
	_, err := Parse("", "SCL01:TICK,1000,0,txid:0")
	if !errors.Is(err, config.ErrPayloadGrammar) {
 t.Fatalf("expected ErrPayloadGrammar, got %v", err)
	}
}

func TestParse_UnknownKeyword(t *testing.T) {
	_, err := Parse("", "{cid:NOT_A_REAL_OP foo}")
	if !errors.Is(err, config.ErrPayloadGrammar) {
 t.Fatalf("expected ErrPayloadGrammar, got %v", err)
	}
}

func TestParseLP_Provide(t *testing.T) {
	cmd, err := ParseLP("PLP[1000000]")
	if err != nil {
 t.Fatalf("ParseLP error = %v", err)
	}
	p := cmd.(LPProvide)
	if p.Amount != 1000000 {
 t.Fatalf("unexpected amount: %d", p.Amount)
	}
}

func TestParseLP_Swap(t *testing.T) {
	cmd, err := ParseLP("SLP[0,500000,990000,0.01]")
	if err != nil {
 t.Fatalf("ParseLP error = %v", err)
	}
	s := cmd.(LPSwap)
	if s.Which != 0 || s.Amount != 500000 || s.Quoted != 990000 || s.Tolerance != 0.01 {
 t.Fatalf("unexpected swap: %+v", s)
	}
}

func TestParseLP_Liquidate(t *testing.T) {
	cmd, err := ParseLP("LLP[250000]")
	if err != nil {
 t.Fatalf("ParseLP error = %v", err)
	}
	l := cmd.(LPLiquidate)
	if l.Amount != 250000 {
 t.Fatalf("unexpected amount: %d", l.Amount)
	}
}

func TestParseLP_UnknownPrefix(t *testing.T) {
	_, err := ParseLP("NOPE[1]")
	if !errors.Is(err, config.ErrPayloadGrammar) {
 t.Fatalf("expected ErrPayloadGrammar, got %v", err)
	}
}

func TestSplitTopLevel_NestedBrackets(t *testing.T) {
	got := splitTopLevel("u1:0(100),u2:0(200,300),u3:0(400)")
	want := []string{"u1:0(100)", "u2:0(200,300)", "u3:0(400)"}
	if len(got) != len(want) {
 t.Fatalf("expected %d fields, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
 if got[i] != want[i] {
 t.Fatalf("field %d: got %q, want %q", i, got[i], want[i])
 }
	}
}
