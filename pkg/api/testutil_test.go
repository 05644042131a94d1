package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssargent/hoard/pkg/snapshot"
)

type testServer struct {
	*Server
	store   *snapshot.Store
	handler http.Handler
}

func setupTestServer(t *testing.T, config ServerConfig) *testServer {
	t.Helper()

	store, err := snapshot.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	if config.DamageThreshold == 0 {
		config.DamageThreshold = 50
	}
	server := NewServer(store, config, NewMetrics(), nil)
	return &testServer{Server: server, store: store, handler: server.Router()}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, header http.Header) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	var resp APIResponse
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// decodeData re-marshals the generic Data field into v
func decodeData(t *testing.T, resp APIResponse, v interface{}) {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
