package chainadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractOpReturn_Found(t *testing.T) {
	vouts := []Vout{
 {ScriptPubKeyType: "p2wpkh"},
 {
 ScriptPubKeyType: "op_return",
 ScriptPubKeyAsm: "OP_RETURN OP_PUSHBYTES_32 aa11bb22cc33dd44ee55ff660011223344556677889900aabbccddeeff0011",
 },
	}
	hex, ok := ExtractOpReturn(vouts)
	if !ok {
 t.Fatalf("expected to find OP_RETURN")
	}
	if hex != "aa11bb22cc33dd44ee55ff660011223344556677889900aabbccddeeff0011" {
 t.Fatalf("unexpected hex: %s", hex)
	}
}

func TestExtractOpReturn_NotFound(t *testing.T) {
	vouts := []Vout{{ScriptPubKeyType: "p2wpkh"}}
	if _, ok := ExtractOpReturn(vouts); ok {
 t.Fatalf("expected no OP_RETURN output")
	}
}

func TestExtractOpReturn_EmptyPush(t *testing.T) {
	vouts := []Vout{{
 ScriptPubKeyType: "op_return",
 ScriptPubKeyAsm: "OP_RETURN",
	}}
	if _, ok := ExtractOpReturn(vouts); ok {
 t.Fatalf("expected no OP_RETURN with no push data")
	}
}

func TestGetTransaction_CachesResponse(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 calls++
 info := TxInfo{TxID: "abc", Status: Status{Confirmed: true}}
 json.NewEncoder(w).Encode(info)
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := New(srv.URL, dir)

	info1, err := a.GetTransaction(context.Background(), "abc", false)
	if err != nil {
 t.Fatalf("GetTransaction error = %v", err)
	}
	if !info1.Status.Confirmed {
 t.Fatalf("expected confirmed=true")
	}

	// Second call should be served from cache, not hit the server again.
	if _, err := a.GetTransaction(context.Background(), "abc", false); err != nil {
 t.Fatalf("GetTransaction (cached) error = %v", err)
	}
	if calls != 1 {
 t.Fatalf("expected exactly 1 network call, got %d", calls)
	}

	// forceRefresh bypasses the cache.
	if _, err := a.GetTransaction(context.Background(), "abc", true); err != nil {
 t.Fatalf("GetTransaction (forced) error = %v", err)
	}
	if calls != 2 {
 t.Fatalf("expected 2 network calls after forced refresh, got %d", calls)
	}
}

func TestGetTransaction_EvictRemovesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 calls++
 json.NewEncoder(w).Encode(TxInfo{TxID: "abc"})
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := New(srv.URL, dir)

	a.GetTransaction(context.Background(), "abc", false)
	a.EvictCachedTx("abc")
	a.GetTransaction(context.Background(), "abc", false)

	if calls != 2 {
 t.Fatalf("expected 2 network calls after eviction, got %d", calls)
	}
}

func TestGetTipHeight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 w.Write([]byte("850123"))
	}))
	defer srv.Close()

	a := New(srv.URL, t.TempDir())
	h, err := a.GetTipHeight(context.Background())
	if err != nil {
 t.Fatalf("GetTipHeight error = %v", err)
	}
	if h != 850123 {
 t.Fatalf("expected 850123, got %d", h)
	}
}

func TestIsUTXOSpent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 json.NewEncoder(w).Encode(map[string]bool{"spent": true})
	}))
	defer srv.Close()

	a := New(srv.URL, t.TempDir())
	spent, err := a.IsUTXOSpent(context.Background(), "abc", 0)
	if err != nil {
 t.Fatalf("IsUTXOSpent error = %v", err)
	}
	if !spent {
 t.Fatalf("expected spent=true")
	}
}

func TestDoGet_NonOKStatus_IsChainError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
 w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := New(srv.URL, t.TempDir())
	_, err := a.GetTipHeight(context.Background())
	if err == nil {
 t.Fatalf("expected error on 500 response")
	}
}
