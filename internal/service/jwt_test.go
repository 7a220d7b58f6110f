package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	id, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Fatalf("player id = %d; want 42", id)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}

	// token signed with another secret
	InitJWT("other-secret")
	token, _ := GenerateJWT(1)
	InitJWT("test-secret")
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("token with wrong signature accepted")
	}
}
