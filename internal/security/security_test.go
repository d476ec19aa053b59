package security

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := SignAdminToken("secret", "admin", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, errParse := ParseAdminToken("secret", token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.Username != "admin" {
		t.Fatalf("username = %q", claims.Username)
	}

	if _, errWrong := ParseAdminToken("other-secret", token); errWrong == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestSignAdminToken_RequiresSecret(t *testing.T) {
	if _, err := SignAdminToken("", "admin", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestParseAdminToken_Expired(t *testing.T) {
	token, err := SignAdminToken("secret", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, errParse := ParseAdminToken("secret", token); errParse == nil {
		t.Fatalf("expected parse failure for expired token")
	}
}
