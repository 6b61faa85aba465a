package service

import (
	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=passphrase.go -destination=../mocks/service_mocks/passphrase_mock.go -package=service_mocks

// PassphraseChecker guards the admin transaction endpoint with a shared
// bcrypt-hashed passphrase.
type PassphraseChecker interface {
	Verify(passphrase string) error
}

type passphraseChecker struct {
	hash []byte
}

func NewPassphraseChecker(hash string) PassphraseChecker {
	return &passphraseChecker{hash: []byte(hash)}
}

func (c *passphraseChecker) Verify(passphrase string) error {
	if len(c.hash) == 0 || passphrase == "" {
		return apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(passphrase)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}

func HashPassphrase(passphrase string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
