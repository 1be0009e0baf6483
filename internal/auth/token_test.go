package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func validClaims() Claims {
	return Claims{
		Sub:   "uid-1",
		Email: "sohee@example.com",
		Name:  "소희",
		Role:  "reporter",
		JTI:   "jti-1",
		Exp:   time.Now().Add(time.Hour).Unix(),
	}
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, validClaims())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Sub != "uid-1" || claims.Email != "sohee@example.com" || claims.Role != "reporter" {
		t.Fatalf("claims round-trip mismatch: %+v", claims)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	token, err := IssueToken(testSecret, validClaims())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "missing signature", token: strings.Split(token, ".")[0]},
		{name: "flipped signature", token: strings.Split(token, ".")[0] + ".AAAA"},
		{name: "wrong secret", token: mustIssue(t, []byte("other-secret"), validClaims())},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseToken(testSecret, tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("ParseToken(%q) err = %v, want ErrInvalidToken", tc.name, err)
			}
		})
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := validClaims()
	claims.Exp = time.Now().Add(-time.Minute).Unix()
	token := mustIssue(t, testSecret, claims)

	if _, err := ParseToken(testSecret, token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("ParseToken err = %v, want ErrExpiredToken", err)
	}
}

func TestHashTokenIsStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("HashToken not deterministic")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("HashToken collision on different inputs")
	}
}

func mustIssue(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	token, err := IssueToken(secret, claims)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return token
}
