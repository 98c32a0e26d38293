// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"milkrun/config"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/service"
	"milkrun/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher builds the hasher from the auth and password strength config.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	hasher := &bcryptHasher{cost: bcrypt.DefaultCost}
	if cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		hasher.cost = cfg.Auth.BcryptCost
	}
	if cfg.PasswordStrength != nil {
		hasher.policy = *cfg.PasswordStrength
	}

	return hasher
}

// NewBcryptHasherWithCost returns a hasher with the given cost and no strength policy.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: cost}
}

// NewBcryptHasherWithPolicy returns a hasher enforcing policy in ValidatePasswordStrength.
func NewBcryptHasherWithPolicy(cost int, policy config.PasswordStrengthConfig) service.PasswordHasher {
	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// Strength is not checked here; callers validate first.
func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash")
	}

	return string(hashed), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

// ValidatePasswordStrength applies the configured rules in a fixed order and
// reports the first one violated in the error details. MinLength counts
// characters; MaxLength and the bcrypt limit count UTF-8 bytes.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	p := h.policy
	maxBytes := bcryptMaxBytes
	if p.MaxLength > 0 && p.MaxLength < maxBytes {
		maxBytes = p.MaxLength
	}

	switch {
	case p.MinLength > 0 && utf8.RuneCountInString(password) < p.MinLength:
		return weak(fmt.Sprintf("must be at least %d characters long", p.MinLength))
	case len(password) > maxBytes:
		return weak(fmt.Sprintf("must be at most %d bytes long", maxBytes))
	case p.RequireLowercase && !h.hasLowercase(password):
		return weak("must contain at least one lowercase letter")
	case p.RequireUppercase && !h.hasUppercase(password):
		return weak("must contain at least one uppercase letter")
	case p.RequireNumbers && !h.hasNumbers(password):
		return weak("must contain at least one number")
	case p.RequireSpecial && !h.hasSpecialChars(password):
		return weak("must contain at least one special character")
	case h.containsForbiddenWords(password, p.ForbiddenWords):
		return weak("contains forbidden words")
	}

	return nil
}

func weak(details string) error {
	return domainerrors.ErrPasswordStrength.WithDetails("password " + details)
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func (h *bcryptHasher) containsForbiddenWords(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}

	return false
}
