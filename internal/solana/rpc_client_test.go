package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mr-tron/base58"
)

const testMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func rpcServer(t *testing.T, method string, result interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		if req.Method != method {
			t.Errorf("expected method %s, got %s", method, req.Method)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func encodeMint(supply uint64, decimals byte, authority []byte) string {
	data := make([]byte, mintAccountSize)
	if authority != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		copy(data[4:36], authority)
	}
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	return base64.StdEncoding.EncodeToString(data)
}

func TestHTTPClient_GetMintInfo_Parsed(t *testing.T) {
	server := rpcServer(t, "getAccountInfo", map[string]interface{}{
		"value": map[string]interface{}{
			"data": map[string]interface{}{
				"parsed": map[string]interface{}{
					"info": map[string]interface{}{
						"decimals":        9,
						"freezeAuthority": nil,
						"isInitialized":   true,
						"mintAuthority":   nil,
						"supply":          "4204800000000",
					},
					"type": "mint",
				},
				"program": "spl-token",
			},
			"owner": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	info, err := client.GetMintInfo(context.Background(), testMint)
	if err != nil {
		t.Fatalf("GetMintInfo: %v", err)
	}
	if info == nil {
		t.Fatal("expected mint info, got nil")
	}
	if info.Decimals == nil || *info.Decimals != 9 {
		t.Errorf("expected decimals 9, got %v", info.Decimals)
	}
	if info.Supply != "4204800000000" {
		t.Errorf("unexpected supply: %s", info.Supply)
	}
	if info.MintAuthority != nil {
		t.Errorf("expected no mint authority, got %s", *info.MintAuthority)
	}
}

func TestHTTPClient_GetMintInfo_Base64Fallback(t *testing.T) {
	authority := make([]byte, 32)
	for i := range authority {
		authority[i] = 7
	}

	server := rpcServer(t, "getAccountInfo", map[string]interface{}{
		"value": map[string]interface{}{
			"data":  []string{encodeMint(1_000_000_000, 6, authority), "base64"},
			"owner": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	info, err := client.GetMintInfo(context.Background(), testMint)
	if err != nil {
		t.Fatalf("GetMintInfo: %v", err)
	}
	if info.Decimals == nil || *info.Decimals != 6 {
		t.Errorf("expected decimals 6, got %v", info.Decimals)
	}
	if info.Supply != "1000000000" {
		t.Errorf("unexpected supply: %s", info.Supply)
	}
	if info.MintAuthority == nil || *info.MintAuthority != base58.Encode(authority) {
		t.Errorf("unexpected mint authority: %v", info.MintAuthority)
	}
	if info.FreezeAuthority != nil {
		t.Errorf("expected no freeze authority")
	}
}

func TestHTTPClient_GetMintInfo_NotAMint(t *testing.T) {
	server := rpcServer(t, "getAccountInfo", map[string]interface{}{
		"value": map[string]interface{}{
			"data": map[string]interface{}{
				"parsed": map[string]interface{}{
					"info": map[string]interface{}{},
					"type": "account",
				},
				"program": "spl-token",
			},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	if _, err := client.GetMintInfo(context.Background(), testMint); err == nil {
		t.Fatal("expected error for non-mint account")
	}
}

func TestHTTPClient_GetMintInfo_NotFound(t *testing.T) {
	server := rpcServer(t, "getAccountInfo", map[string]interface{}{"value": nil})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	info, err := client.GetMintInfo(context.Background(), testMint)
	if err != nil {
		t.Fatalf("GetMintInfo: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil for not found, got %+v", info)
	}
}

func TestParseMintData_TooShort(t *testing.T) {
	short := base64.StdEncoding.EncodeToString(make([]byte, 40))
	if _, err := ParseMintData(testMint, short); err == nil {
		t.Fatal("expected error for short mint data")
	}
}

func TestHTTPClient_NoRetryByDefault(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	if _, err := client.GetSlot(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts.Load())
	}
}

func TestHTTPClient_Retry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := attempts.Add(1)
		if count < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  int64(999),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(3),
		WithRetryDelay(10*time.Millisecond),
	)

	slot, err := client.GetSlot(context.Background())
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}

	if slot != 999 {
		t.Errorf("expected slot 999, got %d", slot)
	}

	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_RPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error": map[string]interface{}{
				"code":    -32600,
				"message": "Invalid Request",
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	_, err := client.GetSlot(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	rpcErr, ok := err.(*rpcError)
	if !ok {
		t.Fatalf("expected rpcError, got %T", err)
	}

	if rpcErr.Code != -32600 {
		t.Errorf("expected code -32600, got %d", rpcErr.Code)
	}
}

func TestHTTPClient_GetAccountInfo(t *testing.T) {
	server := rpcServer(t, "getAccountInfo", map[string]interface{}{
		"value": map[string]interface{}{
			"lamports":   uint64(1000000),
			"owner":      "11111111111111111111111111111111",
			"data":       []string{"SGVsbG8gV29ybGQ=", "base64"},
			"executable": false,
			"rentEpoch":  uint64(100),
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	info, err := client.GetAccountInfo(context.Background(), "testpubkey")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}

	if info == nil {
		t.Fatal("expected account info, got nil")
	}

	if info.Lamports != 1000000 {
		t.Errorf("expected lamports 1000000, got %d", info.Lamports)
	}

	if info.Data != "SGVsbG8gV29ybGQ=" {
		t.Errorf("unexpected data: %s", info.Data)
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.GetSlot(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
