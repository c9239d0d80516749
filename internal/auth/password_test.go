// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := CheckPassword("changeme", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Error("correct password was rejected")
	}

	ok, err = CheckPassword("wrong", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if ok {
		t.Error("wrong password was accepted")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$v=1$x$y$z", "$argon2id$v=19$m=1$a$b"} {
		if _, err := CheckPassword("x", h); err == nil {
			t.Errorf("CheckPassword(%q) should fail", h)
		}
	}
	if _, err := CheckPassword("x", "nope"); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("error = %v, want ErrInvalidHash", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	current, _ := HashPassword("x")
	if NeedsRehash(current) {
		t.Error("fresh hash should not need rehash")
	}

	weak, err := hashWith("x", Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	if err != nil {
		t.Fatalf("hashWith: %v", err)
	}
	if !NeedsRehash(weak) {
		t.Error("hash with old parameters should need rehash")
	}

	ok, err := CheckPassword("x", weak)
	if err != nil || !ok {
		t.Errorf("CheckPassword(weak) = %v, %v; want true, nil", ok, err)
	}
}
