package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakshit1504/insurance-final-bot/internal/config"
	"github.com/rakshit1504/insurance-final-bot/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(&config.Config{
		GraphAPIToken:   "test-token",
		PhoneNumberID:   "12345",
		GraphAPIBaseURL: srv.URL,
	})
}

func TestSendText_Delivered(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody types.TextMessageRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	d := client.SendText(context.Background(), "hello there", "9190000000")

	assert.True(t, d.Delivered)
	assert.Empty(t, d.Reason)
	assert.Equal(t, "/12345/messages", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "whatsapp", gotBody.MessagingProduct)
	assert.Equal(t, "text", gotBody.Type)
	assert.Equal(t, "9190000000", gotBody.To)
	assert.Equal(t, "hello there", gotBody.Text.Body)
}

func TestSendText_ProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	})

	d := client.SendText(context.Background(), "hello", "9190000000")

	assert.False(t, d.Delivered)
	assert.Contains(t, d.Reason, "500")
}

func TestSendTemplate(t *testing.T) {
	var gotBody types.TemplateMessageRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	d := client.SendTemplate(context.Background(), "9190000000")

	assert.True(t, d.Delivered)
	assert.Equal(t, "template", gotBody.Type)
	assert.Equal(t, "insurance", gotBody.Template.Name)
	assert.Equal(t, "en", gotBody.Template.Language.Code)
	require.Len(t, gotBody.Template.Components, 2)

	body := gotBody.Template.Components[0]
	assert.Equal(t, "body", body.Type)
	require.Len(t, body.Parameters, 3)
	assert.Equal(t, "Rakshit", body.Parameters[0].Text)

	header := gotBody.Template.Components[1]
	assert.Equal(t, "header", header.Type)
	require.Len(t, header.Parameters, 1)
	require.NotNil(t, header.Parameters[0].Document)
	assert.Equal(t, "insurance.pdf", header.Parameters[0].Document.Filename)
	assert.NotEmpty(t, header.Parameters[0].Document.Link)
}

func TestSendDocument(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "policy.pdf")
	require.NoError(t, os.WriteFile(docPath, []byte("%PDF-1.4 test"), 0o600))

	var uploadProduct, uploadType string
	var gotMessage types.DocumentMessageRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/12345/media":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			uploadProduct = r.FormValue("messaging_product")
			uploadType = r.FormValue("type")

			_, _, err := r.FormFile("file")
			require.NoError(t, err)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"MEDIA123"}`))
		case "/12345/messages":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotMessage))
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
		}
	})

	d := client.SendDocument(context.Background(), docPath, "policy.pdf", "9190000000")

	assert.True(t, d.Delivered)
	assert.Equal(t, "whatsapp", uploadProduct)
	assert.Equal(t, "document", uploadType)
	assert.Equal(t, "document", gotMessage.Type)
	assert.Equal(t, "MEDIA123", gotMessage.Document.ID)
	assert.Equal(t, "policy.pdf", gotMessage.Document.Filename)
	assert.Equal(t, "9190000000", gotMessage.To)
}

func TestSendDocument_UploadFails(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "policy.pdf")
	require.NoError(t, os.WriteFile(docPath, []byte("%PDF-1.4 test"), 0o600))

	messagesCalled := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/12345/media":
			http.Error(w, `{"error":"upload rejected"}`, http.StatusBadGateway)
		case "/12345/messages":
			messagesCalled++
			w.WriteHeader(http.StatusOK)
		}
	})

	d := client.SendDocument(context.Background(), docPath, "policy.pdf", "9190000000")

	assert.False(t, d.Delivered)
	assert.Contains(t, d.Reason, "502")
	assert.Equal(t, 0, messagesCalled, "send must be skipped when the upload fails")
}

func TestSendDocument_MissingFile(t *testing.T) {
	messagesCalled := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		messagesCalled++
		w.WriteHeader(http.StatusOK)
	})

	d := client.SendDocument(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "missing.pdf", "9190000000")

	assert.False(t, d.Delivered)
	assert.Equal(t, 0, messagesCalled)
}
