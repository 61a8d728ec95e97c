package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

// ErrWeakPassword is returned by Hash for inputs below the minimum byte
// length. Full password policy lives in the registration schema; this is
// a last-resort floor.
var ErrWeakPassword = errors.New("password below minimum length")

const minPasswordBytes = 8

// Params are the argon2id cost parameters. Zero values are invalid; use
// DefaultParams as a starting point.
type Params struct {
	MemoryKB    uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns interactive-login cost parameters: 64 MiB, 3
// passes, 2 lanes.
func DefaultParams() Params {
	return Params{
		MemoryKB:    64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher produces and verifies PHC-encoded argon2id hashes
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash). Safe for concurrent use.
type Hasher struct {
	params Params
}

// New validates params and returns a Hasher.
func New(params Params) (*Hasher, error) {
	switch {
	case params.MemoryKB < minMemoryKB:
		return nil, fmt.Errorf("argon2 memory must be >= %d KB", minMemoryKB)
	case params.Time < minTimeCost:
		return nil, errors.New("argon2 time cost must be >= 1")
	case params.Parallelism < minParallelism:
		return nil, errors.New("argon2 parallelism must be >= 1")
	case params.SaltLength < minSaltLength:
		return nil, fmt.Errorf("argon2 salt length must be >= %d", minSaltLength)
	case params.KeyLength < minKeyLength:
		return nil, fmt.Errorf("argon2 key length must be >= %d", minKeyLength)
	}
	return &Hasher{params: params}, nil
}

// Hash derives a fresh salt and returns the PHC-encoded hash. Password
// bytes are used exactly as provided, no Unicode normalization.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < minPasswordBytes {
		return "", ErrWeakPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt,
		h.params.Time, h.params.MemoryKB, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version,
		h.params.MemoryKB, h.params.Time, h.params.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash under the parameters embedded in encoded and
// compares in constant time. A malformed encoded hash is an error, not a
// mismatch.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(password), parsed.salt,
		parsed.time, parsed.memoryKB, parsed.parallelism, uint32(len(parsed.key)))

	return subtle.ConstantTimeCompare(key, parsed.key) == 1, nil
}

// NeedsRehash reports whether encoded was produced under weaker
// parameters than the Hasher's own, so callers can transparently upgrade
// stored hashes after a successful verify.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	return parsed.memoryKB < h.params.MemoryKB ||
		parsed.time < h.params.Time ||
		parsed.parallelism < h.params.Parallelism ||
		uint32(len(parsed.key)) != h.params.KeyLength, nil
}

type phc struct {
	memoryKB    uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing argon2 version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	out := &phc{}
	if err := parseCosts(parts[3], out); err != nil {
		return nil, err
	}

	var err error
	if out.salt, err = base64.StdEncoding.DecodeString(parts[4]); err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if uint32(len(out.salt)) < minSaltLength {
		return nil, errors.New("invalid salt length")
	}
	if out.key, err = base64.StdEncoding.DecodeString(parts[5]); err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(out.key) == 0 {
		return nil, errors.New("invalid hash length")
	}
	return out, nil
}

func parseCosts(part string, out *phc) error {
	var seen int
	for _, pair := range strings.Split(part, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.New("invalid cost entry")
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || uint32(n) < minMemoryKB {
				return errors.New("invalid memory cost")
			}
			out.memoryKB = uint32(n)
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || uint32(n) < minTimeCost {
				return errors.New("invalid time cost")
			}
			out.time = uint32(n)
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || uint8(n) < minParallelism {
				return errors.New("invalid parallelism cost")
			}
			out.parallelism = uint8(n)
		default:
			return errors.New("unsupported cost parameter")
		}
		seen++
	}
	if seen != 3 || out.memoryKB == 0 || out.time == 0 || out.parallelism == 0 {
		return errors.New("missing cost parameters")
	}
	return nil
}
