package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/eunjoy-library/StudentTrackr/app/config"
)

func setTestConfig(t *testing.T) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	config.AppConfig = &config.Config{
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
	}
}

func TestCheckPassword(t *testing.T) {
	setTestConfig(t)

	if !CheckPassword("open-sesame") {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("") {
		t.Error("empty password accepted")
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	setTestConfig(t)

	token, err := GenerateAdminToken()
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if err := ValidateAdminToken(token); err != nil {
		t.Errorf("ValidateAdminToken rejected a fresh token: %v", err)
	}
}

func TestValidateAdminTokenRejectsGarbage(t *testing.T) {
	setTestConfig(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if err := ValidateAdminToken(token); err == nil {
			t.Errorf("ValidateAdminToken(%q) accepted", token)
		}
	}
}

func TestValidateAdminTokenRejectsWrongKey(t *testing.T) {
	setTestConfig(t)

	token, err := GenerateAdminToken()
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	config.AppConfig.JWTSecret = "rotated-secret"
	if err := ValidateAdminToken(token); err == nil {
		t.Error("token signed with the old key accepted after rotation")
	}
}
