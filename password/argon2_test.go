package password

import (
	"errors"
	"strings"
	"testing"
)

func testParams() Params {
	return Params{
		MemoryKB:    64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := New(testParams())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	hash, err := hasher.Hash("Sup3r$ecret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("Sup3r$ecret", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher, _ := New(testParams())

	hash, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify("wrong-password", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestHashSaltsAreUnique(t *testing.T) {
	hasher, _ := New(testParams())

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestNeedsRehash(t *testing.T) {
	weak, err := New(Params{MemoryKB: 32 * 1024, Time: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("New(weak) error: %v", err)
	}
	hash, err := weak.Hash("test-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	strong, _ := New(testParams())
	needs, err := strong.NeedsRehash(hash)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if !needs {
		t.Fatal("expected rehash for weaker stored parameters")
	}

	current, err := strong.Hash("test-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	needs, err = strong.NeedsRehash(current)
	if err != nil {
		t.Fatalf("NeedsRehash error: %v", err)
	}
	if needs {
		t.Fatal("expected no rehash for current parameters")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher, _ := New(testParams())

	for _, bad := range []string{
		"not-a-phc-hash",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
	} {
		if _, err := hasher.Verify("password", bad); err == nil {
			t.Fatalf("expected error for malformed hash %q", bad)
		}
	}
}

func TestVerifyWrongVersion(t *testing.T) {
	hasher, _ := New(testParams())

	hash, err := hasher.Hash("version-test")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	wrongVersion := strings.Replace(hash, "$v=19$", "$v=18$", 1)
	if _, err := hasher.Verify("version-test", wrongVersion); err == nil {
		t.Fatal("expected unsupported version to fail")
	}
}

func TestHashShortPassword(t *testing.T) {
	hasher, _ := New(testParams())

	for _, pwd := range []string{"", "short"} {
		if _, err := hasher.Hash(pwd); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("Hash(%q) = %v, want ErrWeakPassword", pwd, err)
		}
	}
}

func TestNewRejectsWeakParams(t *testing.T) {
	cases := []Params{
		{MemoryKB: 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		{MemoryKB: 64 * 1024, Time: 0, Parallelism: 2, SaltLength: 16, KeyLength: 32},
		{MemoryKB: 64 * 1024, Time: 3, Parallelism: 0, SaltLength: 16, KeyLength: 32},
		{MemoryKB: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 8, KeyLength: 32},
		{MemoryKB: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 8},
	}
	for _, params := range cases {
		if _, err := New(params); err == nil {
			t.Fatalf("New(%+v) accepted invalid params", params)
		}
	}
}
