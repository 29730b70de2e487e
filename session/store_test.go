package session_test

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/interu-app/interu-cli/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newStore(t)

	err := store.Save(session.Session{AccessToken: "acc-1", RefreshToken: "ref-1"})
	require.NoError(t, err)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "acc-1", sess.AccessToken)
	assert.Equal(t, "ref-1", sess.RefreshToken)
}

func TestStore_Load_NoSession(t *testing.T) {
	store := newStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStore_Save_Overwrites(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Save(session.Session{AccessToken: "old", RefreshToken: "old-r"}))
	require.NoError(t, store.Save(session.Session{AccessToken: "new", RefreshToken: "new-r"}))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "new", sess.AccessToken)
	assert.Equal(t, "new-r", sess.RefreshToken)
}

func TestStore_Clear(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Save(session.Session{AccessToken: "acc", RefreshToken: "ref"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, session.ErrNoSession)

	// Clearing again must not fail.
	assert.NoError(t, store.Clear())
}

func TestStore_AccessToken(t *testing.T) {
	store := newStore(t)

	_, err := store.AccessToken()
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, store.Save(session.Session{AccessToken: "acc", RefreshToken: "ref"}))

	tok, err := store.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "acc", tok)
}

func TestStore_SetAccessToken_KeepsRefreshToken(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Save(session.Session{AccessToken: "acc-old", RefreshToken: "ref"}))
	require.NoError(t, store.SetAccessToken("acc-new"))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "acc-new", sess.AccessToken)
	assert.Equal(t, "ref", sess.RefreshToken)
}

func TestStore_Save_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	store := session.NewStore(path)

	require.NoError(t, store.Save(session.Session{AccessToken: "acc", RefreshToken: "ref"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// unsignedJWT builds a syntactically valid JWT with the given exp claim and
// an empty signature, enough for unverified parsing.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.", header, base64.RawURLEncoding.EncodeToString(payload))
}

func TestTokenExpired(t *testing.T) {
	assert.False(t, session.TokenExpired(unsignedJWT(t, time.Now().Add(time.Hour))))
	assert.True(t, session.TokenExpired(unsignedJWT(t, time.Now().Add(-time.Hour))))
	assert.True(t, session.TokenExpired("not-a-jwt"))
	assert.True(t, session.TokenExpired(""))
}
