package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dojocycle/dojocycle/internal/config"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/httpclient"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/sentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneAR(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "no digits", raw: "n/a", want: ""},
		{name: "full international", raw: "+54 9 11 2345-6789", want: "5491123456789"},
		{name: "international without mobile prefix", raw: "+54 11 2345 6789", want: "5491123456789"},
		{name: "trunk zero", raw: "011 2345 6789", want: "5491123456789"},
		{name: "local fifteen", raw: "15 2345 6789", want: "54923456789"},
		{name: "bare number", raw: "3415551234", want: "5493415551234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhoneAR(tt.raw))
		})
	}
}

func newTestSender(t *testing.T, url string, enabled bool) Sender {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.WhatsApp.Enabled = enabled
	cfg.WhatsApp.BaseURL = url
	cfg.WhatsApp.Token = "secret"
	cfg.WhatsApp.PhoneNumberID = "12345"

	log := logger.NewNopLogger()
	return NewClient(cfg,
		httpclient.NewClient(httpclient.ClientConfig{Timeout: time.Second}, nil),
		log,
		sentry.NewSentryService(cfg, log),
	)
}

func TestClient_SendTemplate(t *testing.T) {
	var got messageBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	sender := newTestSender(t, srv.URL, true)
	res, err := sender.SendTemplate(context.Background(), &TemplateRequest{
		To:     "011 2345 6789",
		Params: []string{"Ana", "2024-02"},
	})
	require.NoError(t, err)

	assert.Equal(t, "wamid.1", res.MessageID)
	assert.Equal(t, "5491123456789", res.To)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "hello_world", got.Template.Name)
	assert.Equal(t, "en_US", got.Template.Language.Code)
	require.Len(t, got.Template.Components, 1)
	assert.Equal(t, "Ana", got.Template.Components[0].Parameters[0].Text)
}

func TestClient_SendTemplateProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Template name does not exist","code":132001}}`))
	}))
	defer srv.Close()

	sender := newTestSender(t, srv.URL, true)
	_, err := sender.SendTemplate(context.Background(), &TemplateRequest{To: "3415551234", Template: "missing"})
	require.Error(t, err)
	assert.True(t, ierr.IsHTTPClient(err))
	assert.Contains(t, err.Error(), "Template name does not exist")
}

func TestClient_SendTemplateGuards(t *testing.T) {
	disabled := newTestSender(t, "http://unused", false)
	_, err := disabled.SendTemplate(context.Background(), &TemplateRequest{To: "3415551234"})
	assert.True(t, ierr.IsInvalidOperation(err))

	enabled := newTestSender(t, "http://unused", true)
	_, err = enabled.SendTemplate(context.Background(), &TemplateRequest{To: "---"})
	assert.True(t, ierr.IsValidation(err))
}
