package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient("localhost:8000", time.Second)
	assert.Error(t, err)
}

func TestClient_DoSendsJSONAndBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/torneo-organizador", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		var in map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 2, in["fk_torneo_id"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":11}`))
	})

	var out struct {
		ID int `json:"id"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/torneo-organizador",
		Query:  map[string][]string{"page": {"2"}},
		Token:  "tok",
		Body:   map[string]int{"fk_torneo_id": 2},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 11, out.ID)
}

func TestClient_NormalizesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusConflict, `{"detail":"Ya inscrito"}`, "Ya inscrito"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"campo requerido"},{"msg":"email invalido"}]}`, "campo requerido; email invalido"},
		{"message field", http.StatusBadRequest, `{"message":"fuera de rango"}`, "fuera de rango"},
		{"not json", http.StatusInternalServerError, `Internal Server Error`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, nil)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestClient_NotFoundMatchesSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/ciudades/99"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(srv.URL, time.Second)
	require.NoError(t, err)
	srv.Close()

	err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/paises"}, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Zero(t, StatusOf(err))
}

func TestClient_UploadMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		assert.Equal(t, "png-bytes", string(data))
		w.Write([]byte(`{"foto_perfil":"https://cdn/me.png"}`))
	})

	var out struct {
		URL string `json:"foto_perfil"`
	}
	err := c.Upload(context.Background(), Request{Method: http.MethodPost, Path: "/usuarios/7/foto", Token: "tok"},
		"file", "me.png", "image/png", strings.NewReader("png-bytes"), &out)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/me.png", out.URL)
}
