package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/picogrid/convoy-tracker/pkg/config"
	"github.com/picogrid/convoy-tracker/pkg/events"
	"github.com/picogrid/convoy-tracker/pkg/models"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:                "127.0.0.1:0",
		EnablePlayground:    true,
		EnableIntrospection: true,
		MaxQueryDepth:       10,
		MaxQueryComplexity:  1000,
		CORSOrigins:         []string{"*"},
	}
}

// newTestServer wires a server whose resolver has only the broker and
// version; repository-backed operations are not exercised here.
func newTestServer(t *testing.T) (*httptest.Server, *events.Broker) {
	t.Helper()
	broker := events.NewBroker()
	t.Cleanup(broker.Close)

	resolver := NewResolver(ResolverConfig{
		Broker:  broker,
		Version: "test-version",
		Logger:  zap.NewNop(),
	})
	srv := NewServer(testServerConfig(), resolver, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, broker
}

func postOperation(t *testing.T, ts *httptest.Server, query string, variables map[string]interface{}) (*http.Response, models.OperationResponse) {
	t.Helper()
	vars := make(map[string]json.RawMessage, len(variables))
	for k, v := range variables {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		vars[k] = raw
	}
	body, err := json.Marshal(models.OperationRequest{Query: query, Variables: vars})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/graphql", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var envelope models.OperationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Equal(t, "OK", buf.String())
}

func TestRootBanner(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "Convoy")
}

func TestPlaygroundServedOnGet(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/graphql")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHealthOperation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, envelope := postOperation(t, ts, `{ health }`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, envelope.Errors)
	assert.Equal(t, "OK", envelope.Data["health"])
}

func TestVersionOperation(t *testing.T) {
	ts, _ := newTestServer(t)

	_, envelope := postOperation(t, ts, `{ version }`, nil)
	assert.Equal(t, "test-version", envelope.Data["version"])
}

func TestUnknownOperationRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, envelope := postOperation(t, ts, `{ flyToTheMoon }`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "INVALID_INPUT", envelope.Errors[0].Extensions["code"])
}

func TestDepthLimitEnforced(t *testing.T) {
	ts, _ := newTestServer(t)

	query := "{ a { b { c { d { e { f { g { h { i { j { k } } } } } } } } } } }"
	resp, envelope := postOperation(t, ts, query, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, envelope.Errors, 1)
	assert.Contains(t, envelope.Errors[0].Message, "depth")
}

func TestInvalidUUIDArgument(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, envelope := postOperation(t, ts, `{ ranking(convoy_id: $convoy_id) }`,
		map[string]interface{}{"convoy_id": "not-a-uuid", "limit": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "INVALID_INPUT", envelope.Errors[0].Extensions["code"])
}

func TestIntrospectionCatalog(t *testing.T) {
	ts, _ := newTestServer(t)

	_, envelope := postOperation(t, ts, `{ __schema }`, nil)
	require.Empty(t, envelope.Errors)
	ops, ok := envelope.Data["__schema"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, ops)
}

func TestMalformedEnvelope(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/graphql", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
