package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-slack-relay/store"
)

func repos(t *testing.T) map[string]store.Repo {
	t.Helper()

	boltRepo, err := store.NewBoltRepo(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = boltRepo.Close() })

	return map[string]store.Repo{
		"inmemory": store.NewInMemoryRepo(),
		"bolt":     boltRepo,
	}
}

func TestRepo_Credentials(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			creds, err := repo.Credentials()
			require.NoError(t, err)
			require.True(t, creds.Empty())

			require.NoError(t, repo.SetToken("xoxb-test"))
			creds, err = repo.Credentials()
			require.NoError(t, err)
			require.Equal(t, "xoxb-test", creds.Token)
			require.Equal(t, "xoxb-test", creds.AuthToken())

			// The OAuth access token takes precedence over the installed token
			require.NoError(t, repo.SetOAuthTokens("tok1", "refresh-1"))
			creds, err = repo.Credentials()
			require.NoError(t, err)
			require.Equal(t, "tok1", creds.AuthToken())
			require.Equal(t, "refresh-1", creds.RefreshToken)

			// A refresh without a rotated refresh token keeps the old one
			require.NoError(t, repo.SetOAuthTokens("tok2", ""))
			creds, err = repo.Credentials()
			require.NoError(t, err)
			require.Equal(t, "tok2", creds.AccessToken)
			require.Equal(t, "refresh-1", creds.RefreshToken)
		})
	}
}

func TestRepo_HandshakeMarkers(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			state, err := repo.OAuthState()
			require.NoError(t, err)
			require.Empty(t, state)

			require.NoError(t, repo.SetOAuthState("s1"))
			state, err = repo.OAuthState()
			require.NoError(t, err)
			require.Equal(t, "s1", state)

			require.NoError(t, repo.DeleteOAuthState())
			state, err = repo.OAuthState()
			require.NoError(t, err)
			require.Empty(t, state)

			require.NoError(t, repo.SetProcessedCode("abc123"))
			code, err := repo.ProcessedCode()
			require.NoError(t, err)
			require.Equal(t, "abc123", code)
		})
	}
}

func TestRepo_Clear(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.SetToken("xoxb-test"))
			require.NoError(t, repo.SetOAuthTokens("tok1", "refresh-1"))
			require.NoError(t, repo.SetOAuthState("s1"))
			require.NoError(t, repo.SetProcessedCode("abc123"))

			require.NoError(t, repo.Clear())

			creds, err := repo.Credentials()
			require.NoError(t, err)
			require.True(t, creds.Empty())
			require.Empty(t, creds.RefreshToken)

			state, err := repo.OAuthState()
			require.NoError(t, err)
			require.Empty(t, state)

			code, err := repo.ProcessedCode()
			require.NoError(t, err)
			require.Empty(t, code)
		})
	}
}

func TestBoltRepo_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.db")

	repo, err := store.NewBoltRepo(path)
	require.NoError(t, err)
	require.NoError(t, repo.SetOAuthTokens("tok1", "refresh-1"))
	require.NoError(t, repo.Close())

	reopened, err := store.NewBoltRepo(path)
	require.NoError(t, err)
	defer reopened.Close()

	creds, err := reopened.Credentials()
	require.NoError(t, err)
	require.Equal(t, "tok1", creds.AccessToken)
	require.Equal(t, "refresh-1", creds.RefreshToken)
}
