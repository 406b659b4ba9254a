package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestParseCredentials(t *testing.T) {
	creds, err := ParseCredentials("ana:segredo, rui:outro")
	if err != nil {
		t.Fatalf("ParseCredentials: %v", err)
	}
	if !creds.Has("ana") || !creds.Has("rui") {
		t.Fatal("users missing after parse")
	}
	if creds.Has("outra") {
		t.Fatal("unknown user reported present")
	}
}

func TestParseCredentialsRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "semsenha", "ana:", ":segredo"} {
		if _, err := ParseCredentials(raw); err == nil {
			t.Errorf("ParseCredentials(%q) should fail", raw)
		}
	}
}

func TestVerifyPlainSecret(t *testing.T) {
	creds, _ := ParseCredentials("ana:segredo")
	if !creds.Verify("ana", "segredo") {
		t.Fatal("correct password rejected")
	}
	if creds.Verify("ana", "errado") {
		t.Fatal("wrong password accepted")
	}
	if creds.Verify("rui", "segredo") {
		t.Fatal("unknown user accepted")
	}
}

func TestVerifyBcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	creds, _ := ParseCredentials("ana:" + string(hash))
	if !creds.Verify("ana", "segredo") {
		t.Fatal("correct password rejected against hash")
	}
	if creds.Verify("ana", "errado") {
		t.Fatal("wrong password accepted against hash")
	}
}
