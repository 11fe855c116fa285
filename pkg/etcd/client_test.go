package etcd_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fleetmap/pkg/errors"
	"github.com/agentstation/fleetmap/pkg/etcd"
	"github.com/agentstation/fleetmap/pkg/nodes"
)

// fakeGateway is an in-memory stand-in for the etcd v3 HTTP gateway,
// speaking the same base64-over-JSON wire format.
type fakeGateway struct {
	kvs map[string]string // decoded key -> encoded value
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{kvs: map[string]string{}}
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/kv/put", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		key, err := base64.StdEncoding.DecodeString(body.Key)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		g.kvs[string(key)] = body.Value
		w.Write([]byte(`{"header":{"revision":"2"}}`)) //nolint:errcheck
	})
	mux.HandleFunc("/v3/kv/range", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		key, err := base64.StdEncoding.DecodeString(body.Key)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		value, ok := g.kvs[string(key)]
		if !ok {
			w.Write([]byte(`{"header":{"revision":"2"}}`)) //nolint:errcheck
			return
		}
		resp := map[string]any{
			"count": "1",
			"kvs":   []map[string]string{{"key": body.Key, "value": value}},
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})
	return mux
}

func testNode(t *testing.T) *nodes.Node {
	t.Helper()
	node, err := nodes.New(map[string]any{
		"hostname":      "gpu-01",
		"ip":            "10.0.0.11",
		"gpu_type":      "H100",
		"nvidia_driver": "550.54.15",
		"secure_boot":   true,
		"tags":          []any{"prod"},
	})
	require.NoError(t, err)
	return node
}

func TestPutNode(t *testing.T) {
	t.Run("stores record under node key", func(t *testing.T) {
		gateway := newFakeGateway()
		server := httptest.NewServer(gateway.handler())
		defer server.Close()

		client := etcd.New(server.URL)
		require.NoError(t, client.PutNode(context.Background(), testNode(t)))

		encoded, ok := gateway.kvs["/gpu/nodes/gpu-01"]
		require.True(t, ok)

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)

		var stored map[string]any
		require.NoError(t, json.Unmarshal(raw, &stored))
		assert.Equal(t, "gpu-01", stored["hostname"])
		assert.Equal(t, true, stored["secure_boot"])
	})

	t.Run("store-reported failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		err := etcd.New(server.URL).PutNode(context.Background(), testNode(t))
		require.Error(t, err)

		var werr *errors.StoreWriteError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, "gpu-01", werr.Hostname)
		assert.Equal(t, http.StatusServiceUnavailable, werr.StatusCode)
		assert.True(t, errors.IsStoreUnavailable(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused

		err := etcd.New(server.URL).PutNode(context.Background(), testNode(t))
		var werr *errors.StoreWriteError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, "gpu-01", werr.Hostname)
	})
}

func TestGetNode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		gateway := newFakeGateway()
		server := httptest.NewServer(gateway.handler())
		defer server.Close()

		client := etcd.New(server.URL)
		node := testNode(t)
		require.NoError(t, client.PutNode(context.Background(), node))

		stored, found, err := client.GetNode(context.Background(), "gpu-01")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "gpu-01", stored["hostname"])
		assert.Equal(t, "H100", stored["gpu_type"])

		diff := node.Compare(stored)
		assert.Equal(t, nodes.StatusMatch, diff.Status)
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		server := httptest.NewServer(newFakeGateway().handler())
		defer server.Close()

		stored, found, err := etcd.New(server.URL).GetNode(context.Background(), "gpu-03")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, stored)
	})

	t.Run("store-reported failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, _, err := etcd.New(server.URL).GetNode(context.Background(), "gpu-01")
		var rerr *errors.StoreReadError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusInternalServerError, rerr.StatusCode)
	})

	t.Run("corrupt transport encoding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"count":"1","kvs":[{"key":"aa","value":"%%not-base64%%"}]}`)) //nolint:errcheck
		}))
		defer server.Close()

		_, found, err := etcd.New(server.URL).GetNode(context.Background(), "gpu-01")
		require.Error(t, err)
		assert.False(t, found)

		var derr *errors.DecodeError
		require.ErrorAs(t, err, &derr)
		assert.True(t, errors.IsCorruptValue(err))
	})

	t.Run("stored value does not parse as a record", func(t *testing.T) {
		corrupt := base64.StdEncoding.EncodeToString([]byte("not json at all"))
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"count":"1","kvs":[{"key":"aa","value":"` + corrupt + `"}]}`)) //nolint:errcheck
		}))
		defer server.Close()

		_, _, err := etcd.New(server.URL).GetNode(context.Background(), "gpu-01")
		require.Error(t, err)
		assert.True(t, errors.IsCorruptValue(err))
	})

	t.Run("malformed range response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`)) //nolint:errcheck
		}))
		defer server.Close()

		_, _, err := etcd.New(server.URL).GetNode(context.Background(), "gpu-01")
		var rerr *errors.StoreReadError
		require.ErrorAs(t, err, &rerr)
	})
}

func TestNodeKey(t *testing.T) {
	assert.Equal(t, "/gpu/nodes/gpu-01", etcd.NodeKey("gpu-01"))
}
