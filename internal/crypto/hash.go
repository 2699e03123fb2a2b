package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"

	maxArgon2MemoryKiB = 1 << 20
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported password hash algorithm")
	ErrInvalidWorkFactor    = errors.New("invalid password hash work factor")
	ErrInvalidHashFormat    = errors.New("invalid encoded hash format")
	ErrIncompatibleVersion  = errors.New("incompatible argon2 version")
)

// HashParams configures the Argon2id hashing parameters.
type HashParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultHashParams returns recommended Argon2id parameters for password hashing.
func DefaultHashParams() HashParams {
	return HashParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// HasherConfig selects the algorithm new hashes are produced with and its
// work factor. Verification accepts any supported algorithm regardless.
type HasherConfig struct {
	Algorithm  string
	Argon2     HashParams
	BcryptCost int
}

// Hasher is the one-way salted password hash primitive. It is immutable
// after construction and safe for concurrent use.
type Hasher struct {
	algorithm  string
	params     HashParams
	bcryptCost int
}

// NewHasher validates cfg and returns a Hasher. An error here is a
// configuration error and should stop the process.
func NewHasher(cfg HasherConfig) (*Hasher, error) {
	switch cfg.Algorithm {
	case AlgorithmArgon2id, "":
		p := cfg.Argon2
		if p == (HashParams{}) {
			p = DefaultHashParams()
		}
		if p.SaltLength == 0 {
			p.SaltLength = 16
		}
		if p.KeyLength == 0 {
			p.KeyLength = 32
		}
		if p.Iterations < 1 || p.Parallelism < 1 || p.Memory < 8*uint32(p.Parallelism) || p.Memory > maxArgon2MemoryKiB {
			return nil, fmt.Errorf("%w: argon2id m=%d t=%d p=%d", ErrInvalidWorkFactor, p.Memory, p.Iterations, p.Parallelism)
		}
		return &Hasher{algorithm: AlgorithmArgon2id, params: p}, nil
	case AlgorithmBcrypt:
		if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("%w: bcrypt cost %d", ErrInvalidWorkFactor, cfg.BcryptCost)
		}
		return &Hasher{algorithm: AlgorithmBcrypt, bcryptCost: cfg.BcryptCost}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}
}

// Algorithm reports the algorithm new hashes are produced with.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash returns an encoded hash of plaintext with a fresh random salt.
// Argon2id hashes use the PHC string format, bcrypt hashes the modular
// crypt format; both carry the algorithm, parameters and salt.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if h.algorithm == AlgorithmBcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(hash), nil
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(plaintext), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	// $argon2id$v=19$m=65536,t=3,p=2$<base64-salt>$<base64-hash>
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether plaintext matches encoded. Malformed or unknown
// encodings yield false.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		params, salt, hash, err := decodeHash(encoded)
		if err != nil {
			return false
		}
		candidate := argon2.IDKey([]byte(plaintext), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
		return subtle.ConstantTimeCompare(hash, candidate) == 1
	case isBcryptHash(encoded):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
	default:
		return false
	}
}

func isBcryptHash(encoded string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// decodeHash parses a PHC-formatted Argon2id hash string.
func decodeHash(encodedHash string) (HashParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	if parts[1] != AlgorithmArgon2id {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	if version != argon2.Version {
		return HashParams{}, nil, nil, ErrIncompatibleVersion
	}

	var params HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	// argon2.IDKey panics on zero rounds or threads.
	if params.Iterations < 1 || params.Parallelism < 1 || params.Memory > maxArgon2MemoryKiB {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	params.SaltLength = uint32(len(salt))

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return HashParams{}, nil, nil, ErrInvalidHashFormat
	}
	params.KeyLength = uint32(len(hash))

	return params, salt, hash, nil
}
