package crypto

import (
	"errors"
	"strings"
	"testing"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(HasherConfig{
		Algorithm: AlgorithmArgon2id,
		Argon2:    HashParams{Memory: 1024, Iterations: 1, Parallelism: 1},
	})
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}
	return h
}

func TestHashFormat(t *testing.T) {
	h, err := NewHasher(HasherConfig{Algorithm: AlgorithmArgon2id})
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}

	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestVerifyCorrect(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("my-secure-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !h.Verify("my-secure-password", hash) {
		t.Error("Verify() returned false for correct password")
	}
}

func TestVerifyWrong(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	for _, candidate := range []string{"wrong-password", "correct-passwor", "Correct-password", ""} {
		if h.Verify(candidate, hash) {
			t.Errorf("Verify(%q) returned true for wrong password", candidate)
		}
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := newTestHasher(t)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
	if !h.Verify("same-password", hash1) || !h.Verify("same-password", hash2) {
		t.Error("both salted hashes should verify")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := newTestHasher(t)

	malformed := []string{
		"",
		"invalid-hash-format",
		"$argon2id$",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$!!!",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=0$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$$aGFzaA",
		"$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$2b$04$notarealbcrypthash",
		"secret",
	}
	for _, encoded := range malformed {
		if h.Verify("secret", encoded) {
			t.Errorf("Verify() returned true for malformed hash %q", encoded)
		}
	}
}

func TestBcryptHasher(t *testing.T) {
	h, err := NewHasher(HasherConfig{Algorithm: AlgorithmBcrypt, BcryptCost: 4})
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Errorf("Hash() = %q, want bcrypt cost 4 prefix", hash)
	}
	if !h.Verify("secret", hash) {
		t.Error("Verify() returned false for correct password")
	}
	if h.Verify("Secret", hash) {
		t.Error("Verify() returned true for wrong password")
	}
}

func TestVerifyAcceptsEitherAlgorithm(t *testing.T) {
	argon := newTestHasher(t)
	bc, err := NewHasher(HasherConfig{Algorithm: AlgorithmBcrypt, BcryptCost: 4})
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}

	bcryptHash, err := bc.Hash("secret")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !argon.Verify("secret", bcryptHash) {
		t.Error("argon2id hasher should verify existing bcrypt hashes")
	}
}

func TestNewHasherRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  HasherConfig
		want error
	}{
		{name: "unknown algorithm", cfg: HasherConfig{Algorithm: "md5"}, want: ErrUnsupportedAlgorithm},
		{name: "bcrypt cost too low", cfg: HasherConfig{Algorithm: AlgorithmBcrypt, BcryptCost: 2}, want: ErrInvalidWorkFactor},
		{name: "bcrypt cost too high", cfg: HasherConfig{Algorithm: AlgorithmBcrypt, BcryptCost: 32}, want: ErrInvalidWorkFactor},
		{name: "argon2 zero iterations", cfg: HasherConfig{Algorithm: AlgorithmArgon2id, Argon2: HashParams{Memory: 1024, Parallelism: 1}}, want: ErrInvalidWorkFactor},
		{name: "argon2 tiny memory", cfg: HasherConfig{Algorithm: AlgorithmArgon2id, Argon2: HashParams{Memory: 8, Iterations: 1, Parallelism: 4}}, want: ErrInvalidWorkFactor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHasher(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewHasher() error = %v, want %v", err, tt.want)
			}
		})
	}
}
