package auth

import (
	"os"
	"time"
)

// EnvAPIKey holds an API key supplied through the environment
const EnvAPIKey = "PLAYHARVEST_API_KEY"

// EnvironmentStore implements CredentialStore over PLAYHARVEST_API_KEY.
// It is read-only and answers for every profile.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Retrieve(profile string) (*Credential, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, ErrCredentialsNotFound
	}

	if profile == "" {
		profile = DefaultProfile
	}

	return &Credential{
		Profile:      profile,
		APIKey:       key,
		LastModified: time.Now(),
	}, nil
}

func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv(EnvAPIKey) != ""
}
