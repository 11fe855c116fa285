package etcd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/agentstation/fleetmap/pkg/constants"
	"github.com/agentstation/fleetmap/pkg/errors"
	"github.com/agentstation/fleetmap/pkg/nodes"
)

// Gateway paths for the v3 key-value API.
const (
	putPath   = "/v3/kv/put"
	rangePath = "/v3/kv/range"
)

// Client talks to an etcd v3 HTTP gateway. Each node record is stored
// under constants.NodeKeyPrefix + hostname with the record's mapping
// serialized as canonical JSON.
type Client struct {
	baseURL string
	http    *http.Client
	codec   Codec
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithCodec replaces the wire codec.
func WithCodec(codec Codec) Option {
	return func(c *Client) {
		c.codec = codec
	}
}

// New creates a client for the gateway at baseURL, e.g.
// "http://localhost:2379".
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		codec:   NewCodec(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// NodeKey returns the store key for a hostname.
func NodeKey(hostname string) string {
	return constants.NodeKeyPrefix + hostname
}

// putRequest is the gateway's put body: base64 key and value.
type putRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// rangeRequest is the gateway's range body for a single-key lookup.
type rangeRequest struct {
	Key string `json:"key"`
}

// rangeResponse is the subset of the gateway's range response we consume.
type rangeResponse struct {
	Kvs []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"kvs"`
	Count string `json:"count"`
}

// PutNode writes a node record to the store. On success the store's value
// for the node's key equals the serialized record. Any transport or
// store-reported failure becomes a StoreWriteError carrying the hostname;
// the client never retries internally.
func (c *Client) PutNode(ctx context.Context, node *nodes.Node) error {
	key := NodeKey(node.Hostname)

	value, err := json.Marshal(node.Map())
	if err != nil {
		return &errors.StoreWriteError{
			Hostname: node.Hostname,
			Key:      key,
			Message:  "serializing record",
			Err:      err,
		}
	}

	body := putRequest{
		Key:   c.codec.Encode([]byte(key)),
		Value: c.codec.Encode(value),
	}

	status, _, err := c.post(ctx, putPath, body)
	if err != nil {
		return &errors.StoreWriteError{
			Hostname: node.Hostname,
			Key:      key,
			Message:  err.Error(),
			Err:      err,
		}
	}
	if status != http.StatusOK {
		return &errors.StoreWriteError{
			Hostname:   node.Hostname,
			Key:        key,
			StatusCode: status,
			Message:    "store rejected write",
		}
	}

	return nil
}

// GetNode reads the stored mapping for a hostname. A missing key is not
// an error: the second return value reports presence. Transport and
// store-reported failures become StoreReadError; a stored value that does
// not decode or parse becomes DecodeError, never a silent miss.
func (c *Client) GetNode(ctx context.Context, hostname string) (map[string]any, bool, error) {
	key := NodeKey(hostname)

	body := rangeRequest{Key: c.codec.Encode([]byte(key))}

	status, respBody, err := c.post(ctx, rangePath, body)
	if err != nil {
		return nil, false, &errors.StoreReadError{
			Hostname: hostname,
			Key:      key,
			Message:  err.Error(),
			Err:      err,
		}
	}
	if status != http.StatusOK {
		return nil, false, &errors.StoreReadError{
			Hostname:   hostname,
			Key:        key,
			StatusCode: status,
			Message:    "store rejected read",
		}
	}

	var decoded rangeResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, false, &errors.StoreReadError{
			Hostname: hostname,
			Key:      key,
			Message:  "parsing range response",
			Err:      err,
		}
	}

	if len(decoded.Kvs) == 0 {
		return nil, false, nil
	}

	raw, err := c.codec.Decode(decoded.Kvs[0].Value)
	if err != nil {
		return nil, false, errors.NewDecodeError(key, "stored value is not validly encoded", err)
	}

	var mapping map[string]any
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, false, errors.NewDecodeError(key, "stored value does not parse as a record", err)
	}

	return mapping, true, nil
}

// post issues a JSON POST to the gateway and returns the status code and
// response body.
func (c *Client) post(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Read-side close errors are not actionable

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	return resp.StatusCode, respBody, nil
}
