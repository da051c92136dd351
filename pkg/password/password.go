// Package password wraps bcrypt with a configurable cost.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const MaxBytes = 72

var ErrMismatch = errors.New("password: mismatch")

type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher builds a hasher and precomputes a dummy hash at the same cost so
// CompareDummy costs as much as a real comparison.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password: cost %d outside %d..%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("taskpulse-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns ErrMismatch when plain does not match hash.
func (h *Hasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// CompareDummy burns one comparison against a fixed hash and always fails.
func (h *Hasher) CompareDummy(plain string) error {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
	return ErrMismatch
}
