package signaliz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials(t *testing.T) {
	creds := Credentials{APIKey: "sk_live_abc"}

	assert.NoError(t, creds.Validate())
	assert.Equal(t, "Bearer sk_live_abc", creds.AuthorizationHeader())

	req := creds.Authenticate(resty.New().R())
	assert.Equal(t, "Bearer sk_live_abc", req.Header.Get("Authorization"))

	err := Credentials{}.Validate()
	var credErr *CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCredentials_NeverPrinted(t *testing.T) {
	creds := Credentials{APIKey: "sk_live_secret"}

	assert.NotContains(t, fmt.Sprint(creds), "sk_live_secret")
	assert.NotContains(t, fmt.Sprintf("%v", creds), "sk_live_secret")

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("config", "credentials", creds)
	assert.NotContains(t, buf.String(), "sk_live_secret")
	assert.Contains(t, buf.String(), `"api_key_set":true`)
}

func TestDispatcher_Probe(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusOK, `{"success":true}`)

		require.NoError(t, newTestDispatcher(api.URL).Probe(context.Background()))

		req := api.last(t)
		assert.Equal(t, "/company-signal-enrichment", req.Path)
		assert.Equal(t, "Bearer sk_test_123", req.Header.Get("Authorization"))
		assert.JSONEq(t,
			`{"company_name":"Test Company","research_prompt":"Test authentication","target_signal_count":1}`,
			req.RawBody)
	})

	t.Run("rejected key", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusUnauthorized, `{"error":"Invalid API key"}`)

		err := newTestDispatcher(api.URL).Probe(context.Background())

		var credErr *CredentialError
		require.True(t, errors.As(err, &credErr), "expected *CredentialError, got %T", err)

		var apiErr *ApiError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "Invalid API key")
	})

	t.Run("unreachable", func(t *testing.T) {
		api := newFakeAPI(t, http.StatusOK, `{}`)
		url := api.URL
		api.Close()

		err := newTestDispatcher(url).Probe(context.Background())

		var credErr *CredentialError
		assert.True(t, errors.As(err, &credErr))
	})

	t.Run("missing key is not wrapped twice", func(t *testing.T) {
		err := NewDispatcher(nil, "http://127.0.0.1:1", Credentials{}).Probe(context.Background())

		var credErr *CredentialError
		require.True(t, errors.As(err, &credErr))
		assert.Equal(t, ErrMissingAPIKey, credErr.Err)
	})
}
