package antelope

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "antelope-chat-api/pkg/errors"
)

func TestChainClientCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/chain/get_account" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["account_name"] != "eosio" {
			t.Errorf("account_name = %v", body["account_name"])
		}
		w.Write([]byte(`{"account_name":"eosio","ram_quota":123}`))
	}))
	defer server.Close()

	client := NewChainClient(server.URL, time.Second)
	data, err := client.GetAccount(context.Background(), "eosio")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}

	var account map[string]any
	if err := json.Unmarshal(data, &account); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if account["account_name"] != "eosio" {
		t.Errorf("account_name = %v", account["account_name"])
	}
}

func TestChainClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"details":[{"message":"unknown key (eosio::chain::name): nosuchacct"}]}}`))
	}))
	defer server.Close()

	client := NewChainClient(server.URL, time.Second)
	_, err := client.GetAccount(context.Background(), "nosuchacct")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message == "" {
		t.Error("expected extracted chain error message")
	}
}

func TestChainClientUnreachable(t *testing.T) {
	// 已关闭的服务器地址
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewChainClient(url, 500*time.Millisecond)
	_, err := client.GetInfo(context.Background())
	if !errors.Is(err, apperrors.ErrChainUnreachable) {
		t.Fatalf("err = %v, want ErrChainUnreachable", err)
	}
}

func TestHyperionGetTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/history/get_transaction" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "abc123" {
			t.Errorf("id = %s", got)
		}
		w.Write([]byte(`{
			"executed": true,
			"trx_id": "abc123",
			"actions": [
				{"act": {"account": "eosio.token", "name": "transfer",
					"data": {"from": "alice", "to": "appwallet111", "quantity": "2.0000 TLOS", "memo": "deposit"}}}
			]
		}`))
	}))
	defer server.Close()

	client := NewHyperionClient(server.URL, time.Second)
	tx, err := client.GetTransaction(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !tx.Executed {
		t.Error("executed = false")
	}
	if len(tx.Actions) != 1 || tx.Actions[0].Act.Data.Quantity != "2.0000 TLOS" {
		t.Errorf("actions = %+v", tx.Actions)
	}
}

func TestHyperionGetTransactionNotFound(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"http 404", http.StatusNotFound, `{"message":"transaction not found"}`},
		{"empty 200 body", http.StatusOK, `{"executed":false,"actions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer server.Close()

			client := NewHyperionClient(server.URL, time.Second)
			_, err := client.GetTransaction(context.Background(), "deadbeef")
			if !errors.Is(err, apperrors.ErrTxNotFound) {
				t.Fatalf("err = %v, want ErrTxNotFound", err)
			}
		})
	}
}

func TestHyperionGetActionsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("account") != "alice" {
			t.Errorf("account = %s", q.Get("account"))
		}
		if q.Get("filter") != "eosio.token:transfer" {
			t.Errorf("filter = %s", q.Get("filter"))
		}
		if q.Get("simple") != "true" {
			t.Errorf("simple = %s", q.Get("simple"))
		}
		w.Write([]byte(`{"simple_actions":[],"total":{"value":0,"relation":"eq"}}`))
	}))
	defer server.Close()

	client := NewHyperionClient(server.URL, time.Second)
	_, err := client.GetActions(context.Background(), ActionsRequest{
		Account: "alice",
		Filter:  "eosio.token:transfer",
		Limit:   10,
		Simple:  true,
	})
	if err != nil {
		t.Fatalf("GetActions: %v", err)
	}
}
