package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func fakeGoogle(t *testing.T, verified bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if verified {
			_, _ = w.Write([]byte(`{"sub":"1001","email":" Ravi@Example.com ","email_verified":true,"name":"Ravi","picture":"https://img/p.png"}`))
			return
		}
		_, _ = w.Write([]byte(`{"sub":"1001","email":"ravi@example.com","email_verified":false}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testProvider(srv *httptest.Server) *GoogleProvider {
	return newProvider(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/callback",
		Scopes:       []string{"openid", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, srv.URL+"/userinfo")
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	srv := fakeGoogle(t, true)
	p := testProvider(srv)

	raw := p.AuthCodeURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, "/auth", u.Path)
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := fakeGoogle(t, true)
	p := testProvider(srv)

	id, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "1001", id.Subject)
	assert.Equal(t, "ravi@example.com", id.Email)
	assert.Equal(t, "https://img/p.png", id.Picture)
}

func TestGoogleProvider_ExchangeBadCode(t *testing.T) {
	srv := fakeGoogle(t, true)
	p := testProvider(srv)

	_, err := p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleProvider_UnverifiedEmail(t *testing.T) {
	srv := fakeGoogle(t, false)
	p := testProvider(srv)

	_, err := p.Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrUnverifiedEmail)
}
