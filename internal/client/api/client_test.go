package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestLogin_OK(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@x.com", body["email"])

		json.NewEncoder(w).Encode(AuthResponse{Token: "tok", User: User{ID: "u-1", Email: "a@x.com"}})
	})
	defer srv.Close()

	resp, err := c.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u-1", resp.User.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	})
	defer srv.Close()

	_, err := c.Login(context.Background(), "a@x.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestRegister_Conflict(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "User already exists"})
	})
	defer srv.Close()

	_, err := c.Register(context.Background(), "a@x.com", "secret123", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Note{ID: "n-1"})
	})
	defer srv.Close()

	c.SetToken("my-token")
	_, err := c.CreateNote(context.Background(), "T", "C", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-token", gotAuth)

	c.ClearToken()
	_, err = c.CreateNote(context.Background(), "T", "C", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGetNote_NotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Note not found"})
	})
	defer srv.Close()

	_, err := c.GetNote(context.Background(), "n-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestListNotes_QueryEncoding(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(NotePage{Notes: []Note{}})
	})
	defer srv.Close()

	_, err := c.ListNotes(context.Background(), ListParams{
		Search:        "groc",
		Tags:          []string{"work", "home"},
		FavoritesOnly: true,
		SortBy:        "title",
		SortAsc:       true,
		Page:          2,
		Limit:         5,
	})
	require.NoError(t, err)

	q := srvQuery(t, gotQuery)
	assert.Equal(t, "groc", q.Get("search"))
	assert.Equal(t, "work,home", q.Get("tags"))
	assert.Equal(t, "true", q.Get("favorites"))
	assert.Equal(t, "title", q.Get("sortBy"))
	assert.Equal(t, "asc", q.Get("sortOrder"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "5", q.Get("limit"))
}

func srvQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return q
}

func TestConvertLocal(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notes/convert-local", r.URL.Path)

		var body struct {
			Notes []LocalNotePayload `json:"notes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Notes, 2)

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Local notes converted successfully",
			"notes":   []Note{{ID: "n-1"}, {ID: "n-2"}},
		})
	})
	defer srv.Close()

	notes, err := c.ConvertLocal(context.Background(), []LocalNotePayload{
		{Title: "A", Content: "B"},
		{Title: "C", Content: "D"},
	})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n-1", notes[0].ID)
}

func TestPing_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestErrorBodyWithoutJSON(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	err := c.Ping(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
