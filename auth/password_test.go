package auth

import "testing"

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher()

	digest, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash: unexpected error: %v", err)
	}
	if digest == "correct horse battery" {
		t.Fatal("digest must not equal the plaintext")
	}

	ok, err := h.Verify("correct horse battery", digest)
	if err != nil {
		t.Fatalf("verify: unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected match for the original password")
	}
}

func TestHasher_WrongPassword(t *testing.T) {
	h := NewHasher()

	digest, err := h.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash: unexpected error: %v", err)
	}

	ok, err := h.Verify("wrong password", digest)
	if err != nil {
		t.Fatalf("verify: mismatch should not be an error: %v", err)
	}
	if ok {
		t.Fatal("expected no match for a different password")
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	h := NewHasher()

	if _, err := h.Verify("anything", "not-a-bcrypt-digest"); err == nil {
		t.Fatal("expected error for malformed digest")
	}
}

func TestHasher_SamePasswordDifferentDigests(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("repeatable")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("repeatable")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("bcrypt digests should be salted and differ per call")
	}
}
