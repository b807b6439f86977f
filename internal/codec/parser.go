package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scl-host/sclindexer/internal/config"
)

var mintKeywords = map[string]bool{
	"SCL01": true, "SCL02": true, "SCL03": true, "SCL04": true, "SCL05": true,
}

// Parse parses a brace-wrapped textual command payload. txid is
// the enclosing transaction's id, substituted for the literal token "TXID"
// wherever it appears.
func Parse(txid, raw string) (Command, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, "\r\n")
	if txid != "" {
 s = strings.ReplaceAll(s, "TXID", txid)
	}

	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
 return nil, fmt.Errorf("%w: payload not wrapped in braces: %q", config.ErrPayloadGrammar, raw)
	}
	inner := s[1 : len(s)-1]

	parts := strings.SplitN(inner, ":", 2)
	if len(parts) != 2 {
 return nil, fmt.Errorf("%w: missing ':' separator: %q", config.ErrPayloadGrammar, raw)
	}
	head, rest := strings.TrimSpace(parts[0]), parts[1]

	if mintKeywords[head] {
 return parseMint(head, rest)
	}
	return parseOperation(head, rest)
}

func parseMint(kind, rest string) (Command, error) {
	switch kind {
	case "SCL01":
 inner, err := stripBrackets(rest)
 if err != nil {
 return nil, err
 }
 fields := splitTopLevel(inner)
 if len(fields) != 4 {
 return nil, fmt.Errorf("%w: SCL01 mint expects 4 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 maxSupply, err := parseUint(fields[1])
 if err != nil {
 return nil, err
 }
 dec, err := parseInt(fields[2])
 if err != nil {
 return nil, err
 }
 return MintSCL01{Ticker: fields[0], MaxSupply: maxSupply, Decimals: dec, ReceiveUTXO: fields[3]}, nil

	case "SCL02":
 inner, err := stripBrackets(rest)
 if err != nil {
 return nil, err
 }
 fields := splitTopLevel(inner)
 if len(fields) != 4 {
 return nil, fmt.Errorf("%w: SCL02 mint expects 4 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 maxSupply, err := parseUint(fields[1])
 if err != nil {
 return nil, err
 }
 airdropAmt, err := parseUint(fields[2])
 if err != nil {
 return nil, err
 }
 dec, err := parseInt(fields[3])
 if err != nil {
 return nil, err
 }
 return MintSCL02{Ticker: fields[0], MaxSupply: maxSupply, AirdropAmount: airdropAmt, Decimals: dec}, nil

	case "SCL03":
 fields := splitTopLevel(rest)
 if len(fields) != 3 {
 return nil, fmt.Errorf("%w: SCL03 mint expects 3 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 dec, err := parseInt(fields[1])
 if err != nil {
 return nil, err
 }
 allocInner, err := stripBrackets(fields[2])
 if err != nil {
 return nil, err
 }
 allocations, err := parseUTXOAmountList(allocInner)
 if err != nil {
 return nil, err
 }
 return MintSCL03{Ticker: fields[0], Decimals: dec, Allocations: allocations}, nil

	case "SCL04":
 fields := splitTopLevel(rest)
 if len(fields) != 5 {
 return nil, fmt.Errorf("%w: SCL04 mint expects 5 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 ratio, err := parseUint(fields[3])
 if err != nil {
 return nil, err
 }
 fee, err := strconv.ParseFloat(fields[4], 64)
 if err != nil {
 return nil, fmt.Errorf("%w: invalid fee %q: %v", config.ErrPayloadGrammar, fields[4], err)
 }
 return MintSCL04{Ticker: fields[0], ContractID1: fields[1], ContractID2: fields[2], Ratio: ratio, Fee: fee}, nil

	case "SCL05":
 fields := splitTopLevel(rest)
 if len(fields) != 3 {
 return nil, fmt.Errorf("%w: SCL05 mint expects 3 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 return MintSCL05{Ticker: fields[0], ReceiveUTXO: fields[1], Base64Data: fields[2]}, nil
	}
	return nil, fmt.Errorf("%w: unknown mint keyword %q", config.ErrPayloadGrammar, kind)
}

func parseOperation(contractID, rest string) (Command, error) {
	keyword, args := splitKeywordArgs(rest)

	switch keyword {
	case "TRANSFER":
 fields := splitTopLevel(args)
 if len(fields) != 2 {
 return nil, fmt.Errorf("%w: TRANSFER expects 2 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 senders, err := parseUTXOList(fields[0])
 if err != nil {
 return nil, err
 }
 receivers, err := parseUTXOAmountBracket(fields[1])
 if err != nil {
 return nil, err
 }
 return Transfer{ContractID: contractID, Senders: senders, Receivers: receivers}, nil

	case "BURN":
 fields := splitTopLevel(args)
 if len(fields) != 3 {
 return nil, fmt.Errorf("%w: BURN expects 3 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 burners, err := parseUTXOList(fields[0])
 if err != nil {
 return nil, err
 }
 amt, err := parseUint(fields[1])
 if err != nil {
 return nil, err
 }
 return Burn{ContractID: contractID, Burners: burners, Amount: amt, ChangeUTXO: fields[2]}, nil

	case "LIST":
 fields := splitTopLevel(args)
 if len(fields) != 6 {
 return nil, fmt.Errorf("%w: LIST expects 6 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 senders, err := parseUTXOList(fields[0])
 if err != nil {
 return nil, err
 }
 listAmt, err := parseUint(fields[3])
 if err != nil {
 return nil, err
 }
 price, err := parseUint(fields[4])
 if err != nil {
 return nil, err
 }
 if err := validateAddress(fields[5]); err != nil {
 return nil, err
 }
 return List{
 ContractID: contractID, Senders: senders, ChangeUTXO: fields[1],
 ListUTXO: fields[2], ListAmount: listAmt, Price: price, PayAddr: fields[5],
 }, nil

	case "BID":
 fields := splitTopLevel(args)
 if len(fields) == 0 {
 return nil, fmt.Errorf("%w: BID expects at least one bid tuple", config.ErrPayloadGrammar)
 }
 bids := make([]BidEntry, 0, len(fields))
 for _, f := range fields {
 inner, err := stripBrackets(f)
 if err != nil {
 return nil, err
 }
 tuple := splitTopLevel(inner)
 if len(tuple) != 4 {
 return nil, fmt.Errorf("%w: bid tuple expects 4 fields, got %d", config.ErrPayloadGrammar, len(tuple))
 }
 amt, err := parseUint(tuple[1])
 if err != nil {
 return nil, err
 }
 price, err := parseUint(tuple[2])
 if err != nil {
 return nil, err
 }
 bids = append(bids, BidEntry{OrderID: tuple[0], Amount: amt, Price: price, ReservedUTXO: tuple[3]})
 }
 return Bid{ContractID: contractID, Bids: bids}, nil

	case "ACCEPT_BID":
 return AcceptBid{ContractID: contractID}, nil

	case "FULFIL_TRADE":
 return FulfilTrade{ContractID: contractID}, nil

	case "CANCELLISTING":
 if args == "" {
 return nil, fmt.Errorf("%w: CANCELLISTING requires a utxo argument", config.ErrPayloadGrammar)
 }
 return CancelListing{ContractID: contractID, ListUTXO: args}, nil

	case "CANCELBID":
 if args == "" {
 return nil, fmt.Errorf("%w: CANCELBID requires a utxo argument", config.ErrPayloadGrammar)
 }
 return CancelBid{ContractID: contractID, BidUTXO: args}, nil

	case "DRIP":
 fields := splitTopLevel(args)
 if len(fields) != 3 {
 return nil, fmt.Errorf("%w: DRIP expects 3 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 senders, err := parseUTXOList(fields[0])
 if err != nil {
 return nil, err
 }
 receivers, err := parseDripReceiverBracket(fields[1])
 if err != nil {
 return nil, err
 }
 return Drip{ContractID: contractID, Senders: senders, Receivers: receivers, ChangeUTXO: fields[2]}, nil

	case "DIMAIRDROP":
 fields := splitTopLevel(args)
 if len(fields) != 8 {
 return nil, fmt.Errorf("%w: DIMAIRDROP expects 8 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 senders, err := parseUTXOList(fields[0])
 if err != nil {
 return nil, err
 }
 nums, err := parseUints(fields[1:6])
 if err != nil {
 return nil, err
 }
 single, err := parseBool(fields[7])
 if err != nil {
 return nil, err
 }
 return DimAirdropMint{
 ContractID: contractID, Senders: senders,
 Pool: nums[0], StepAmount: nums[1], StepPeriod: nums[2], Max: nums[3], Min: nums[4],
 ChangeUTXO: fields[6], SingleDrop: single,
 }, nil

	case "CLAIM_DIMAIRDROP":
 fields := splitTopLevel(args)
 if len(fields) != 2 {
 return nil, fmt.Errorf("%w: CLAIM_DIMAIRDROP expects 2 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 return DimAirdropClaim{ContractID: contractID, ClaimID: fields[0], ReceiverUTXO: fields[1]}, nil

	case "DGE":
 fields := splitTopLevel(args)
 if len(fields) != 8 {
 return nil, fmt.Errorf("%w: DGE expects 8 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 senders, err := parseUTXOList(fields[0])
 if err != nil {
 return nil, err
 }
 nums, err := parseUints(fields[1:5])
 if err != nil {
 return nil, err
 }
 single, err := parseBool(fields[7])
 if err != nil {
 return nil, err
 }
 if err := validateAddress(fields[5]); err != nil {
 return nil, err
 }
 return DGECreate{
 ContractID: contractID, Senders: senders,
 Pool: nums[0], SatsRate: nums[1], MaxDrop: nums[2], DripDuration: nums[3],
 DonationAddr: fields[5], ChangeUTXO: fields[6], SingleDrop: single,
 }, nil

	case "CLAIM_DGE":
 fields := splitTopLevel(args)
 if len(fields) != 2 {
 return nil, fmt.Errorf("%w: CLAIM_DGE expects 2 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 return DGEClaim{ContractID: contractID, ClaimID: fields[0], ReceiverUTXO: fields[1]}, nil

	case "RIGHTTOMINT":
 fields := splitTopLevel(args)
 if len(fields) != 4 {
 return nil, fmt.Errorf("%w: RIGHTTOMINT expects 4 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 amt, err := parseUint(fields[3])
 if err != nil {
 return nil, err
 }
 return RightToMintExercise{
 ContractID: contractID, RightsUTXO: fields[0], Receiver: fields[1],
 ChangeUTXO: fields[2], MintAmount: amt,
 }, nil

	case "AIRDROP":
 if args == "" {
 return nil, fmt.Errorf("%w: AIRDROP requires a receiver utxo argument", config.ErrPayloadGrammar)
 }
 return AirdropClaim{ContractID: contractID, ReceiverUTXO: args}, nil
	}

	return nil, fmt.Errorf("%w: unknown operation keyword %q", config.ErrPayloadGrammar, keyword)
}

// ParseLP parses a decrypted LP plaintext payload: PLP[...], SLP[...], or
// LLP[...]. These carry no contract id in the plaintext — the
// caller already knows it, since it's how the ciphertext was decrypted.
func ParseLP(plaintext string) (Command, error) {
	s := strings.TrimSpace(plaintext)

	switch {
	case strings.HasPrefix(s, config.LPProvidePrefix):
 inner, err := stripBrackets(s[len(config.LPProvidePrefix)-1:])
 if err != nil {
 return nil, err
 }
 amt, err := parseUint(inner)
 if err != nil {
 return nil, err
 }
 return LPProvide{Amount: amt}, nil

	case strings.HasPrefix(s, config.LPSwapPrefix):
 inner, err := stripBrackets(s[len(config.LPSwapPrefix)-1:])
 if err != nil {
 return nil, err
 }
 fields := splitTopLevel(inner)
 if len(fields) != 4 {
 return nil, fmt.Errorf("%w: SLP expects 4 fields, got %d", config.ErrPayloadGrammar, len(fields))
 }
 which, err := parseInt(fields[0])
 if err != nil {
 return nil, err
 }
 amount, err := parseUint(fields[1])
 if err != nil {
 return nil, err
 }
 quoted, err := parseUint(fields[2])
 if err != nil {
 return nil, err
 }
 tolerance, err := strconv.ParseFloat(fields[3], 64)
 if err != nil {
 return nil, fmt.Errorf("%w: invalid tolerance %q: %v", config.ErrPayloadGrammar, fields[3], err)
 }
 return LPSwap{Which: which, Amount: amount, Quoted: quoted, Tolerance: tolerance}, nil

	case strings.HasPrefix(s, config.LPLiquidatePrefix):
 inner, err := stripBrackets(s[len(config.LPLiquidatePrefix)-1:])
 if err != nil {
 return nil, err
 }
 amt, err := parseUint(inner)
 if err != nil {
 return nil, err
 }
 return LPLiquidate{Amount: amt}, nil
	}

	return nil, fmt.Errorf("%w: unrecognized LP plaintext prefix", config.ErrPayloadGrammar)
}

// --- low-level tokenizing helpers ---

// splitKeywordArgs splits "KEYWORD[args]" or "KEYWORD args" or bare "KEYWORD"
// into (keyword, args). args is "" for a bare keyword.
func splitKeywordArgs(s string) (string, string) {
	for i, r := range s {
 if r == '[' {
 return s[:i], s[i:]
 }
 if r == ' ' {
 return s[:i], strings.TrimSpace(s[i+1:])
 }
	}
	return s, ""
}

// splitTopLevel splits s on commas that are not nested inside [] or ().
func splitTopLevel(s string) []string {
	if s == "" {
 return nil
	}
	var fields []string
	depth := 0
	start := 0
	for i, r := range s {
 switch r {
 case '[', '(':
 depth++
 case ']', ')':
 depth--
 case ',':
 if depth == 0 {
 fields = append(fields, strings.TrimSpace(s[start:i]))
 start = i + 1
 }
 }
	}
	fields = append(fields, strings.TrimSpace(s[start:]))
	return fields
}

func stripBrackets(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
 return "", fmt.Errorf("%w: expected bracketed list, got %q", config.ErrPayloadGrammar, s)
	}
	return s[1 : len(s)-1], nil
}

func parseUTXOList(bracketed string) ([]string, error) {
	inner, err := stripBrackets(bracketed)
	if err != nil {
 return nil, err
	}
	return splitTopLevel(inner), nil
}

// parseUTXOAmountBracket parses "[u1(a1),u2(a2),...]".
func parseUTXOAmountBracket(bracketed string) ([]UTXOAmount, error) {
	inner, err := stripBrackets(bracketed)
	if err != nil {
 return nil, err
	}
	return parseUTXOAmountList(inner)
}

// parseUTXOAmountList parses "u1(a1),u2(a2),..." (no outer brackets).
func parseUTXOAmountList(inner string) ([]UTXOAmount, error) {
	tokens := splitTopLevel(inner)
	out := make([]UTXOAmount, 0, len(tokens))
	for _, tok := range tokens {
 utxo, args, err := splitTuple(tok)
 if err != nil {
 return nil, err
 }
 if len(args) != 1 {
 return nil, fmt.Errorf("%w: expected utxo(amount), got %q", config.ErrPayloadGrammar, tok)
 }
 amt, err := parseUint(args[0])
 if err != nil {
 return nil, err
 }
 out = append(out, UTXOAmount{UTXO: utxo, Amount: amt})
	}
	return out, nil
}

// parseDripReceiverBracket parses "[rec(amt,duration),...]".
func parseDripReceiverBracket(bracketed string) ([]DripReceiver, error) {
	inner, err := stripBrackets(bracketed)
	if err != nil {
 return nil, err
	}
	tokens := splitTopLevel(inner)
	out := make([]DripReceiver, 0, len(tokens))
	for _, tok := range tokens {
 utxo, args, err := splitTuple(tok)
 if err != nil {
 return nil, err
 }
 if len(args) != 2 {
 return nil, fmt.Errorf("%w: expected utxo(amount,duration), got %q", config.ErrPayloadGrammar, tok)
 }
 amt, err := parseUint(args[0])
 if err != nil {
 return nil, err
 }
 dur, err := parseUint(args[1])
 if err != nil {
 return nil, err
 }
 out = append(out, DripReceiver{UTXO: utxo, Amount: amt, Duration: dur})
	}
	return out, nil
}

// splitTuple splits "utxo(a,b,...)" into ("utxo", ["a","b",...]).
func splitTuple(s string) (string, []string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || s[len(s)-1] != ')' {
 return "", nil, fmt.Errorf("%w: expected utxo(...) tuple, got %q", config.ErrPayloadGrammar, s)
	}
	utxo := s[:open]
	inner := s[open+1 : len(s)-1]
	return utxo, splitTopLevel(inner), nil
}

func parseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
 return 0, fmt.Errorf("%w: invalid integer %q: %v", config.ErrPayloadGrammar, s, err)
	}
	return v, nil
}

func parseUints(fields []string) ([]uint64, error) {
	out := make([]uint64, len(fields))
	for i, f := range fields {
 v, err := parseUint(f)
 if err != nil {
 return nil, err
 }
 out[i] = v
	}
	return out, nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
 return 0, fmt.Errorf("%w: invalid integer %q: %v", config.ErrPayloadGrammar, s, err)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
 return true, nil
	case "false", "0":
 return false, nil
	}
	return false, fmt.Errorf("%w: invalid boolean %q", config.ErrPayloadGrammar, s)
}
