package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRpcPost(t *testing.T) {
	var seen RequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"identifier":"abc"}}`))
	}))
	defer server.Close()

	var result struct {
		Identifier string `json:"identifier"`
	}
	err := RpcPost(&result, server.URL, "anchor.GetServerInfo", "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", result.Identifier)

	assert.Equal(t, "2.0", seen.Version)
	assert.Equal(t, "anchor.GetServerInfo", seen.Method)
}

func TestRpcPostError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32011,"message":"did not found"}}`))
	}))
	defer server.Close()

	var result interface{}
	err := RpcPost(&result, server.URL, "anchor.ResolveDID", "did:xrpl:1:rwrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not found")
}

func TestRpcGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"root":"aa","entryCount":2}]`))
	}))
	defer server.Close()

	var result []struct {
		Root       string `json:"root"`
		EntryCount int    `json:"entryCount"`
	}
	err := RpcGetRequest(&result, server.URL, map[string]string{"limit": "5"}, nil, defaultTimeout)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "aa", result[0].Root)
}

func TestRpcGetBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	var result interface{}
	err := RpcGet(&result, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
