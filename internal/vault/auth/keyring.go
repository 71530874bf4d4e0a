package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Keyring holds the HMAC secrets accepted for verification. New tokens are
// always signed with the current key; retired keys only verify.
type Keyring struct {
	current string
	keys    map[string][]byte
}

// NewKeyring builds a keyring from the active secret and any secrets still
// accepted after a rotation.
func NewKeyring(current string, retired ...string) (*Keyring, error) {
	if current == "" {
		return nil, errors.New("signing secret is empty")
	}

	k := &Keyring{keys: make(map[string][]byte, len(retired)+1)}
	for _, secret := range retired {
		if secret == "" {
			continue
		}
		k.keys[KeyID(secret)] = []byte(secret)
	}
	k.current = KeyID(current)
	k.keys[k.current] = []byte(current)

	return k, nil
}

// KeyID derives a stable, non-secret identifier for a signing secret.
func KeyID(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:8])
}

// CurrentID is the kid stamped on newly issued tokens.
func (k *Keyring) CurrentID() string { return k.current }

func (k *Keyring) sign(t *jwt.Token) (string, error) {
	t.Header["kid"] = k.current
	return t.SignedString(k.keys[k.current])
}

// keyFunc picks the secret named by the token's kid header. Tokens without a
// kid are checked against the current key.
func (k *Keyring) keyFunc(t *jwt.Token) (any, error) {
	raw, present := t.Header["kid"]
	if !present {
		return k.keys[k.current], nil
	}
	kid, ok := raw.(string)
	if !ok {
		return nil, errors.New("kid header is not a string")
	}
	key, ok := k.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return key, nil
}
