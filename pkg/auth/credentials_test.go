package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_StoreRetrieveDelete(t *testing.T) {
	manager, store := NewMockManager()

	cred := &Credential{APIKey: "pk_live_0123456789abcdef", BaseURL: "https://gateway.example.com"}
	require.NoError(t, manager.Store(cred))
	assert.Equal(t, DefaultProfile, cred.Profile)
	assert.False(t, cred.LastModified.IsZero())

	got, err := manager.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "pk_live_0123456789abcdef", got.APIKey)
	assert.Equal(t, "https://gateway.example.com", got.BaseURL)
	assert.Equal(t, "pk_live_0123456789abcdef", manager.APIKey(DefaultProfile))

	creds, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, creds, 1)

	require.NoError(t, manager.Delete(DefaultProfile))
	assert.Equal(t, 0, store.Count())

	_, err = manager.Retrieve(DefaultProfile)
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.Empty(t, manager.APIKey(DefaultProfile))
}

func TestManager_StoreRequiresKey(t *testing.T) {
	manager, _ := NewMockManager()
	assert.Error(t, manager.Store(&Credential{Profile: "ci"}))
	assert.Error(t, manager.Store(nil))
}

func TestManager_FallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()

	manager := NewManagerWithStores(broken, working)
	require.NoError(t, manager.Store(&Credential{Profile: "ci", APIKey: "secret-key-value"}))

	assert.Equal(t, 0, broken.Count())
	assert.True(t, working.Exists("ci"))
	assert.Equal(t, "secret-key-value", manager.APIKey("ci"))
}

func TestManager_StoreAllFail(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("disk full")

	err := NewManagerWithStores(broken).Store(&Credential{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestManager_ListKeepsNewest(t *testing.T) {
	a, b := NewMockStore(), NewMockStore()
	old := time.Now().Add(-time.Hour)
	require.NoError(t, a.Store(&Credential{Profile: "default", APIKey: "old", LastModified: old}))
	require.NoError(t, b.Store(&Credential{Profile: "default", APIKey: "new", LastModified: time.Now()}))

	creds, err := NewManagerWithStores(a, b).List()
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "new", creds[0].APIKey)
}

func TestManager_DeleteMissing(t *testing.T) {
	manager, _ := NewMockManager()
	err := manager.Delete("nobody")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManager_Sources(t *testing.T) {
	manager := NewManagerWithStores(&EnvironmentStore{}, NewMockStore())
	assert.Equal(t, []string{"environment", "*auth.MockStore"}, manager.Sources())
}

func TestSanitize(t *testing.T) {
	cred := &Credential{Profile: "default", APIKey: "abcd1234efgh5678"}
	s := Sanitize(cred)
	assert.Equal(t, "abcd...5678", s.APIKey)
	assert.Equal(t, "default", s.Profile)
	assert.Equal(t, "abcd1234efgh5678", cred.APIKey)

	assert.Equal(t, "********", MaskKey("short"))
	assert.Nil(t, Sanitize(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv(EnvPassphrase, "test_passphrase_123")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store(&Credential{Profile: "default", APIKey: "plaintext-secret-key"}))
	require.NoError(t, store.Store(&Credential{Profile: "staging", APIKey: "staging-secret-key"}))

	got, err := store.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "plaintext-secret-key", got.APIKey)
	assert.True(t, store.Exists("staging"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(content, []byte("plaintext-secret-key")), "file contains plaintext key")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	creds, err := store.List()
	require.NoError(t, err)
	assert.Len(t, creds, 2)

	require.NoError(t, store.Delete("staging"))
	require.NoError(t, store.Delete("default"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file removed once empty")
}

func TestEncryptedFileStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv(EnvPassphrase, "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Profile: "default", APIKey: "k"}))

	t.Setenv(EnvPassphrase, "second")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = other.Retrieve("default")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStore_GeneratedPassphrase(t *testing.T) {
	t.Setenv(EnvPassphrase, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Profile: "default", APIKey: "generated"}))

	_, err = os.Stat(filepath.Join(dir, ".passphrase"))
	require.NoError(t, err)

	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "generated", got.APIKey)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv(EnvAPIKey, "")
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))

	t.Setenv(EnvAPIKey, "env-key")
	cred, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cred.APIKey)
	assert.Equal(t, DefaultProfile, cred.Profile)

	assert.ErrorIs(t, store.Store(&Credential{}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)
}

func TestMockStore_ErrorInjection(t *testing.T) {
	store := NewMockStore()
	store.ListError = errors.New("injected error")
	_, err := store.List()
	assert.EqualError(t, err, "injected error")
}

func TestShowAPIKeyGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowAPIKeyGuide(&buf)
	assert.Contains(t, buf.String(), EnvAPIKey)
	assert.Contains(t, buf.String(), "X-API-Key")
}
