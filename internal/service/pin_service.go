package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/pkg/apperror"
	"returns-settlement-engine/pkg/logger"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/argon2"
)

// pinParams are the Argon2id cost parameters encoded into every hash.
type pinParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

var defaultPINParams = pinParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
	saltLen: 16,
}

var errMalformedHash = errors.New("malformed argon2id hash")

// PINHasher implements ports.HashService using Argon2id in the PHC string
// format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type PINHasher struct {
	params pinParams
}

// NewPINHasher creates a hasher with the default cost parameters.
func NewPINHasher() *PINHasher {
	return &PINHasher{params: defaultPINParams}
}

// Hash derives an encoded hash from secret with a fresh random salt.
func (h *PINHasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	p := h.params
	key := argon2.IDKey([]byte(secret), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the parameters stored in encoded.
func (h *PINHasher) Verify(secret string, encoded string) (bool, error) {
	p, salt, key, err := parsePINHash(encoded)
	if err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(secret), salt, p.time, p.memory, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func parsePINHash(encoded string) (pinParams, []byte, []byte, error) {
	var p pinParams
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("%w: version: %v", errMalformedHash, err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %d", errMalformedHash, version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %v", errMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", errMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %v", errMalformedHash, err)
	}
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

// ManagerPINAuthorizer implements ports.OverrideAuthorizer against a single
// configured manager PIN hash. With no hash configured every override is
// accepted.
type ManagerPINAuthorizer struct {
	hasher ports.HashService
	hash   string
	log    zerolog.Logger
}

// NewManagerPINAuthorizer creates a new ManagerPINAuthorizer.
func NewManagerPINAuthorizer(hasher ports.HashService, pinHash string, log zerolog.Logger) *ManagerPINAuthorizer {
	return &ManagerPINAuthorizer{
		hasher: hasher,
		hash:   pinHash,
		log:    logger.WithComponent(log, "override_authorizer"),
	}
}

// Authorize returns ErrOverrideDenied unless pin matches the configured hash.
func (a *ManagerPINAuthorizer) Authorize(_ context.Context, pin string) error {
	if a.hash == "" {
		return nil
	}
	if pin == "" {
		return apperror.ErrOverrideDenied()
	}

	ok, err := a.hasher.Verify(pin, a.hash)
	if err != nil {
		a.log.Error().Err(err).Msg("manager PIN hash could not be checked")
		return apperror.ErrOverrideDenied()
	}
	if !ok {
		a.log.Warn().Msg("manager override rejected: PIN mismatch")
		return apperror.ErrOverrideDenied()
	}
	return nil
}

var (
	_ ports.HashService        = (*PINHasher)(nil)
	_ ports.OverrideAuthorizer = (*ManagerPINAuthorizer)(nil)
)
