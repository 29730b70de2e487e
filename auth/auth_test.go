package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interu-app/interu-cli/api"
	"github.com/interu-app/interu-cli/auth"
	"github.com/interu-app/interu-cli/session"
)

type fixture struct {
	client *auth.Client
	store  *session.Store
	calls  *atomic.Int32
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	apiClient := api.NewClient(server.URL, store)
	return &fixture{
		client: auth.NewClient(apiClient, store),
		store:  store,
		calls:  calls,
	}
}

func TestLogin_StoresIssuedTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/create/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@uni.edu", body["email"])
		assert.Equal(t, "s3cret-pass", body["password"])

		json.NewEncoder(w).Encode(map[string]string{"access": "acc-1", "refresh": "ref-1"})
	})
	fx := newFixture(t, mux)

	err := fx.client.Login(context.Background(), "ada@uni.edu", "s3cret-pass")
	require.NoError(t, err)

	sess, err := fx.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "acc-1", sess.AccessToken)
	assert.Equal(t, "ref-1", sess.RefreshToken)
}

func TestLogin_InvalidEmail_NoNetworkCall(t *testing.T) {
	fx := newFixture(t, http.NewServeMux())

	err := fx.client.Login(context.Background(), "not-an-email", "whatever")
	require.Error(t, err)
	assert.Equal(t, int32(0), fx.calls.Load())
}

func TestLogin_WrongCredentials_SurfacesServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/jwt/create/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
	})
	fx := newFixture(t, mux)

	err := fx.client.Login(context.Background(), "ada@uni.edu", "wrong-pass")
	assert.ErrorIs(t, err, api.ErrUnauthenticated)

	_, loadErr := fx.store.Load()
	assert.ErrorIs(t, loadErr, session.ErrNoSession)
}

func TestLogout_ClearsSession(t *testing.T) {
	fx := newFixture(t, http.NewServeMux())
	require.NoError(t, fx.store.Save(session.Session{AccessToken: "a", RefreshToken: "r"}))

	require.NoError(t, fx.client.Logout())

	_, err := fx.store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRegister_SendsPolicyAcceptance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@uni.edu", body["email"])
		assert.Equal(t, true, body["acepta_politicas"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"email": "ada@uni.edu"})
	})
	fx := newFixture(t, mux)

	err := fx.client.Register(context.Background(), "ada@uni.edu", "s3cret-pass", true)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fx.calls.Load())
}

func TestRegister_RejectedLocally(t *testing.T) {
	fx := newFixture(t, http.NewServeMux())

	tests := []struct {
		name     string
		email    string
		password string
		accept   bool
	}{
		{"policies not accepted", "ada@uni.edu", "s3cret-pass", false},
		{"short password", "ada@uni.edu", "short", true},
		{"bad email", "nope", "s3cret-pass", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fx.client.Register(context.Background(), tt.email, tt.password, tt.accept)
			require.Error(t, err)
		})
	}
	assert.Equal(t, int32(0), fx.calls.Load())
}

func TestRegister_ServerValidationSurfacedVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"email": ["Ya existe un usuario con este email."]}`))
	})
	fx := newFixture(t, mux)

	err := fx.client.Register(context.Background(), "ada@uni.edu", "s3cret-pass", true)
	ve, ok := api.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Ya existe un usuario con este email."}, ve.FieldMessages("email"))
}

func TestActivate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/activation/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "MQ", body["uid"])
		assert.Equal(t, "tok-123", body["token"])
		w.WriteHeader(http.StatusNoContent)
	})
	fx := newFixture(t, mux)

	require.NoError(t, fx.client.Activate(context.Background(), "MQ", "tok-123"))
}

func TestConfirmPasswordReset_MismatchRejectedLocally(t *testing.T) {
	fx := newFixture(t, http.NewServeMux())

	err := fx.client.ConfirmPasswordReset(context.Background(), "MQ", "tok", "newpass-123", "different")
	require.Error(t, err)
	assert.Equal(t, int32(0), fx.calls.Load())
}

func TestConfirmPasswordReset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/reset_password_confirm/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "newpass-123", body["new_password"])
		assert.Equal(t, "newpass-123", body["re_new_password"])
		w.WriteHeader(http.StatusNoContent)
	})
	fx := newFixture(t, mux)

	err := fx.client.ConfirmPasswordReset(context.Background(), "MQ", "tok", "newpass-123", "newpass-123")
	require.NoError(t, err)
}

func TestMe_RequiresSession(t *testing.T) {
	fx := newFixture(t, http.NewServeMux())

	_, err := fx.client.Me(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
	assert.Equal(t, int32(0), fx.calls.Load())
}

func TestMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/users/me/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"email":            "ada@uni.edu",
			"acepta_politicas": true,
			"is_estudiante":    true,
			"is_admin_interu":  false,
		})
	})
	fx := newFixture(t, mux)
	require.NoError(t, fx.store.Save(session.Session{AccessToken: "acc", RefreshToken: "ref"}))

	account, err := fx.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@uni.edu", account.Email)
	assert.True(t, account.IsStudent)
	assert.False(t, account.IsAdmin)
}
