package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL bounds how long a password-reset token stays redeemable.
const ResetTokenTTL = 15 * time.Minute

// Store hashes and verifies passwords with a server-wide pepper appended
// before bcrypt, and mints single-use reset tokens. Only token digests are
// ever handed to the persistence layer.
type Store struct {
	pepper string
	cost   int
}

func NewStore(pepper string, cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{pepper: pepper, cost: cost}
}

func (s *Store) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext+s.pepper), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *Store) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext+s.pepper)) == nil
}

// NewResetToken mints a reset token. The plaintext goes to the user by
// email; callers persist only the digest and expiry.
func (s *Store) NewResetToken(now time.Time) (plaintext string, digest string, expiry time.Time, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}

	plaintext = hex.EncodeToString(buf)
	return plaintext, HashToken(plaintext), now.Add(ResetTokenTTL), nil
}

// HashToken digests a reset token the same way at issue and redeem time.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
