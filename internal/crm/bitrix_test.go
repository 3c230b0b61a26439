package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodatadev/prodata-bot/internal/config"
)

func newTestClient(url string) *Client {
	logger := zerolog.Nop()

	return New(&config.Config{CRMWebhookURL: url, CRMTimeout: time.Second}, &logger)
}

func TestCreateLeadSuccess(t *testing.T) {
	var got leadAddRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm.lead.add.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"result":42}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	id, err := c.CreateLead(context.Background(), Lead{
		Title: "Поставка насосов",
		Name:  "Иван",
		Phone: "+79990001122",
	})
	require.NoError(t, err)

	assert.Equal(t, "42", id)
	assert.Equal(t, "Поставка насосов", got.Fields.Title)
	assert.Equal(t, "Y", got.Params.RegisterSonetEvent)
	require.Len(t, got.Fields.Phone, 1)
	assert.Equal(t, "+79990001122", got.Fields.Phone[0].Value)
}

func TestCreateLeadWebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"400","error_description":"Bad field"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.CreateLead(context.Background(), Lead{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad field")
}

func TestCreateLeadNotConfigured(t *testing.T) {
	c := newTestClient("")

	_, err := c.CreateLead(context.Background(), Lead{Title: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateLeadNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.CreateLead(context.Background(), Lead{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
