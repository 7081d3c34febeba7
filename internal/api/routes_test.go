package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodGet, "/ping", "", nil)

	rec := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fitness_test_server_request{method="GET",status="200"} 1`)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := extractBearerToken("")
	assert.NoError(t, err)
	assert.Empty(t, token)

	token, err = extractBearerToken("bearer abc")
	assert.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"abc", "Basic abc", "Bearer", "Bearer a b", "Bearer "} {
		_, err = extractBearerToken(header)
		assert.ErrorIs(t, err, errMalformedAuthHeader, header)
	}
}
