package utility

import (
	"testing"
)

func TestCreateAndParseToken(t *testing.T) {
	secret := "test-secret"

	result, err := CreateToken(secret, "user-123", "5f2b1a3c", "42")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}
	tokenStr, ok := result["token"]
	if !ok || tokenStr == "" {
		t.Fatalf("CreateToken không trả về key token, result = %v", result)
	}

	claims, err := ParseToken(secret, tokenStr)
	if err != nil {
		t.Fatalf("ParseToken lỗi: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, muốn user-123", claims.UserID)
	}
	if claims.Time != "5f2b1a3c" {
		t.Errorf("Time = %q, muốn 5f2b1a3c", claims.Time)
	}
	if claims.RandomNumber != "42" {
		t.Errorf("RandomNumber = %q, muốn 42", claims.RandomNumber)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	result, err := CreateToken("secret-a", "user-123", "abc", "1")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}

	if _, err := ParseToken("secret-b", result["token"]); err == nil {
		t.Error("ParseToken với secret sai phải trả về lỗi")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "không-phải-jwt"); err == nil {
		t.Error("ParseToken với chuỗi rác phải trả về lỗi")
	}
}

// Mỗi lần đăng nhập phải sinh ra token khác nhau nhờ time + random number
func TestCreateTokenUnique(t *testing.T) {
	a, err := CreateToken("secret", "user-123", "aaaa", "1")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}
	b, err := CreateToken("secret", "user-123", "bbbb", "2")
	if err != nil {
		t.Fatalf("CreateToken lỗi: %v", err)
	}
	if a["token"] == b["token"] {
		t.Error("Hai lần đăng nhập sinh ra cùng một token")
	}
}
