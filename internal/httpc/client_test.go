package httpc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"session":"abc"}`))
		case "/bad":
			w.Write([]byte(`{`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var got struct {
		Session string `json:"session"`
	}
	require.NoError(t, GetJSON(context.Background(), srv.URL+"/ok", &got))
	assert.Equal(t, "abc", got.Session)

	err := GetJSON(context.Background(), srv.URL+"/missing", &got)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)

	err = GetJSON(context.Background(), srv.URL+"/bad", &got)
	assert.ErrorContains(t, err, "decode")
}

func TestGetJSON_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := GetJSON(ctx, srv.URL, &struct{}{})
	assert.ErrorIs(t, err, context.Canceled)
}
