package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the engine's secrets in the OS keychain.
	KeyringService = "jobgenie"
)

var ErrNotFound = errors.New("secret not found")

// SessionAccount is the keychain account that holds the backend session
// cookie for one backend base URL.
func SessionAccount(baseURL string) string {
	return fmt.Sprintf("jobgenie:session:%s", strings.TrimRight(strings.TrimSpace(baseURL), "/"))
}

func GetSession(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	v, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(v) == "") {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func SetSession(account, cookie string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(cookie) == "" {
		return errors.New("session cookie is empty")
	}
	return keyring.Set(KeyringService, account, cookie)
}

// DeleteSession removes the stored cookie. A missing entry is not an error.
func DeleteSession(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
