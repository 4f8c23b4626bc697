package listen

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/listentui/listentui/constant"
	"github.com/zalando/go-keyring"
)

const keyringUser = "credentials"

// Credentials are what is kept in the system keyring between runs.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token,omitempty"`
}

// SaveCredentials persists c to the system keyring.
func SaveCredentials(c Credentials) error {
	if c.Username == "" || c.Password == "" {
		return errors.New("username and password cannot be empty")
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return keyring.Set(constant.App, keyringUser, string(data))
}

// LoadCredentials reads the stored credentials. keyring.ErrNotFound is returned when there are none.
func LoadCredentials() (Credentials, error) {
	var c Credentials

	raw, err := keyring.Get(constant.App, keyringUser)
	if err != nil {
		return c, err
	}

	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return c, fmt.Errorf("corrupted credentials: %w", err)
	}
	return c, nil
}

// DeleteCredentials removes the stored credentials. It is not an error if there are none.
func DeleteCredentials() error {
	err := keyring.Delete(constant.App, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// TokenValid reports whether token is a JWT that has not expired at now.
// The signature is not verified, only the server can do that.
func TokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Before(exp.Time)
}
