package basic

import (
	"context"

	"github.com/bornholm/dbmenu/internal/authn"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

// Credentials maps usernames to bcrypt password hashes
type Credentials map[string][]byte

// unknownUserHash is compared when the username does not exist
// so that the response time does not disclose valid usernames
var unknownUserHash, _ = bcrypt.GenerateFromPassword([]byte("unknown"), bcrypt.MinCost)

// Authenticate implements UserProvider.
func (c Credentials) Authenticate(ctx context.Context, username, password string) (authn.User, error) {
	hash, exists := c[username]
	if !exists {
		_ = bcrypt.CompareHashAndPassword(unknownUserHash, []byte(password))
		return nil, nil
	}

	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "could not verify password of user '%s'", username)
	}

	return authn.NewAdmin(username), nil
}

var _ UserProvider = Credentials{}

// HashPassword returns the bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(hash), nil
}
