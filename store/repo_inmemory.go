package store

import "sync"

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Everything is lost on restart; use BoltRepo when
// credentials need to survive.
type InMemoryRepo struct {
	mu            sync.RWMutex
	creds         Credentials
	oauthState    string
	processedCode string
}

// NewInMemoryRepo creates a new in-memory credential repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{}
}

func (r *InMemoryRepo) Credentials() (Credentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.creds, nil
}

func (r *InMemoryRepo) SetToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds.Token = token
	return nil
}

func (r *InMemoryRepo) SetOAuthTokens(accessToken, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds.AccessToken = accessToken
	if refreshToken != "" {
		r.creds.RefreshToken = refreshToken
	}
	return nil
}

func (r *InMemoryRepo) OAuthState() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.oauthState, nil
}

func (r *InMemoryRepo) SetOAuthState(state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oauthState = state
	return nil
}

func (r *InMemoryRepo) DeleteOAuthState() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oauthState = ""
	return nil
}

func (r *InMemoryRepo) ProcessedCode() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processedCode, nil
}

func (r *InMemoryRepo) SetProcessedCode(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processedCode = code
	return nil
}

func (r *InMemoryRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds = Credentials{}
	r.oauthState = ""
	r.processedCode = ""
	return nil
}

var _ Repo = (*InMemoryRepo)(nil)
