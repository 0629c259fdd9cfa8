package store

import (
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
)

const credentialsBucket = "credentials"

// Keys within the credentials bucket, one per persisted artifact.
const (
	keyToken         = "token"
	keyAccessToken   = "access_token"
	keyRefreshToken  = "refresh_token"
	keyOAuthState    = "oauth_state"
	keyProcessedCode = "processed_code"
)

// BoltRepo is a bbolt-backed implementation of the Repo interface, used
// when credentials need to survive restarts.
type BoltRepo struct {
	db *bolt.DB
}

// NewBoltRepo opens (creating if necessary) the credential database at
// the given path.
func NewBoltRepo(path string) (*BoltRepo, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(credentialsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltRepo{db: db}, nil
}

// Close releases the underlying database file.
func (r *BoltRepo) Close() error {
	return r.db.Close()
}

func (r *BoltRepo) Credentials() (Credentials, error) {
	var creds Credentials
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(credentialsBucket))
		creds.Token = string(b.Get([]byte(keyToken)))
		creds.AccessToken = string(b.Get([]byte(keyAccessToken)))
		creds.RefreshToken = string(b.Get([]byte(keyRefreshToken)))
		return nil
	})
	return creds, err
}

func (r *BoltRepo) SetToken(token string) error {
	return r.put(keyToken, token)
}

func (r *BoltRepo) SetOAuthTokens(accessToken, refreshToken string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(credentialsBucket))
		if err := b.Put([]byte(keyAccessToken), []byte(accessToken)); err != nil {
			return err
		}
		if refreshToken != "" {
			return b.Put([]byte(keyRefreshToken), []byte(refreshToken))
		}
		return nil
	})
}

func (r *BoltRepo) OAuthState() (string, error) {
	return r.get(keyOAuthState)
}

func (r *BoltRepo) SetOAuthState(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	return r.put(keyOAuthState, state)
}

func (r *BoltRepo) DeleteOAuthState() error {
	return r.delete(keyOAuthState)
}

func (r *BoltRepo) ProcessedCode() (string, error) {
	return r.get(keyProcessedCode)
}

func (r *BoltRepo) SetProcessedCode(code string) error {
	return r.put(keyProcessedCode, code)
}

func (r *BoltRepo) Clear() error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(credentialsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(credentialsBucket))
		return err
	})
}

func (r *BoltRepo) get(key string) (string, error) {
	var value string
	err := r.db.View(func(tx *bolt.Tx) error {
		value = string(tx.Bucket([]byte(credentialsBucket)).Get([]byte(key)))
		return nil
	})
	return value, err
}

func (r *BoltRepo) put(key, value string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(credentialsBucket)).Put([]byte(key), []byte(value))
	})
}

func (r *BoltRepo) delete(key string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(credentialsBucket)).Delete([]byte(key))
	})
}

var _ Repo = (*BoltRepo)(nil)
