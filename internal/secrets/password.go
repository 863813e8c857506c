package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "leadintake"
)

var ErrNoAdminPassword = errors.New("admin password not found (set it in keychain, config or LEADS_ADMIN_PASSWORD)")

// AdminAccount is the keychain account name for the given admin username.
func AdminAccount(username string) string {
	return "leadintake:admin:" + username
}

// AdminPassword looks in the keychain first and falls back to the configured
// value. Keychain errors (no daemon, headless host) just mean "not there".
func AdminPassword(keyringAccount, fallback string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback, nil
	}
	return "", ErrNoAdminPassword
}

func SetAdminPassword(keyringAccount, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteAdminPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
