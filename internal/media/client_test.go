package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "prints", r.FormValue("upload_preset"))
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "photo.jpg", hdr.Filename)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://cdn.test/photo.jpg",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "prints")

	url, err := c.Upload(context.Background(), "photo.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/photo.jpg", url)
}

func TestUploadFromURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "https://session.test/frame.png", payload["file"])
		assert.Equal(t, "prints", payload["upload_preset"])

		// plain url, no secure_url: the client falls back
		_ = json.NewEncoder(w).Encode(map[string]string{
			"url": "http://cdn.test/frame.png",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "prints")

	url, err := c.UploadFromURL(context.Background(), "https://session.test/frame.png")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/frame.png", url)
}

func TestUploadErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid preset"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "wrong")

	_, err := c.Upload(context.Background(), "photo.jpg", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "invalid preset")

	_, err = c.UploadFromURL(context.Background(), "https://session.test/frame.png")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestUploadResponseWithoutURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "prints")

	_, err := c.Upload(context.Background(), "photo.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUpstream)
}
