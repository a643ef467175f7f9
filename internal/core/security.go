// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Stored credentials are "<saltHex>:<hashHex>" where the hash is scrypt
// over the hex salt string. Records without a separator are unsalted
// SHA-256 digests written by older versions of the site.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLength   = 16
	hashSep      = ":"
)

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	saltHex := hex.EncodeToString(salt)

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", err
	}

	return saltHex + hashSep + hex.EncodeToString(key), nil
}

func VerifyPassword(password, stored string) (bool, error) {
	if stored == "" {
		return false, nil
	}

	if IsLegacyHash(stored) {
		digest := legacyDigest(password)
		return subtle.ConstantTimeCompare(
			[]byte(digest),
			[]byte(strings.ToLower(stored)),
		) == 1, nil
	}

	saltHex, hashHex, _ := strings.Cut(stored, hashSep)

	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return false, err
	}

	if len(expected) != len(key) {
		return false, nil
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// VerifyPasswordWithRehash reports whether the password matches and, when
// the stored credential uses the legacy scheme, returns a replacement in
// the current format.
func VerifyPasswordWithRehash(
	password, stored string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, stored)
	if err != nil {
		return false, "", err
	}

	if !valid {
		return false, "", nil
	}

	if NeedsRehash(stored) {
		newHash, hashErr := HashPassword(password)
		if hashErr != nil {
			//nolint:nilerr // password verified successfully; rehash failure is non-critical
			return true, "", nil
		}
		return true, newHash, nil
	}

	return true, "", nil
}

var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// VerifyPasswordTimingSafe spends the same scrypt work whether or not the
// account exists.
func VerifyPasswordTimingSafe(
	password string,
	stored *string,
) (bool, string, error) {
	hashToVerify := dummyHash
	if stored != nil && *stored != "" {
		hashToVerify = *stored
	}

	valid, newHash, err := VerifyPasswordWithRehash(password, hashToVerify)

	if stored == nil || *stored == "" {
		return false, "", nil
	}

	return valid, newHash, err
}

func IsLegacyHash(stored string) bool {
	return !strings.Contains(stored, hashSep)
}

func NeedsRehash(stored string) bool {
	if IsLegacyHash(stored) {
		return true
	}

	_, hashHex, _ := strings.Cut(stored, hashSep)
	return len(hashHex) != scryptKeyLen*2
}

func deriveKey(password, saltHex string) ([]byte, error) {
	key, err := scrypt.Key(
		[]byte(password),
		[]byte(saltHex),
		scryptN,
		scryptR,
		scryptP,
		scryptKeyLen,
	)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
