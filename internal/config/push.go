package config

import (
	"os"
	"strings"
)

const (
	pushProviderEnv        = "PUSH_PROVIDER"
	firebaseProjectIDEnv   = "FIREBASE_PROJECT_ID"
	firebaseCredentialsEnv = "FIREBASE_CREDENTIALS_FILE"
)

type PushProvider string

const (
	PushProviderLog PushProvider = "log"
	PushProviderFCM PushProvider = "fcm"
)

type PushConfig struct {
	Provider          PushProvider
	FirebaseProjectID string
	CredentialsFile   string
}

func LoadPushConfig() *PushConfig {
	provider := PushProvider(strings.ToLower(os.Getenv(pushProviderEnv)))
	if provider == "" {
		provider = PushProviderLog
	}

	return &PushConfig{
		Provider:          provider,
		FirebaseProjectID: os.Getenv(firebaseProjectIDEnv),
		CredentialsFile:   os.Getenv(firebaseCredentialsEnv),
	}
}

func (c *PushConfig) Validate() error {
	switch c.Provider {
	case PushProviderLog, PushProviderFCM:
		return nil
	default:
		return ErrUnknownPushProvider
	}
}
