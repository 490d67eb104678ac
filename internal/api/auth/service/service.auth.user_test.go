package authsvc

import (
	"testing"
)

func TestGenerateSalt(t *testing.T) {
	a, err := generateSalt()
	if err != nil {
		t.Fatalf("generateSalt lỗi: %v", err)
	}
	if a == "" {
		t.Fatal("generateSalt trả về chuỗi rỗng")
	}
	if len(a) != 32 {
		t.Errorf("len(salt) = %d, muốn 32 (16 byte hex)", len(a))
	}

	b, err := generateSalt()
	if err != nil {
		t.Fatalf("generateSalt lỗi: %v", err)
	}
	if a == b {
		t.Error("Hai lần generateSalt sinh ra cùng một salt")
	}
}

func TestHashAndComparePassword(t *testing.T) {
	salt, err := generateSalt()
	if err != nil {
		t.Fatalf("generateSalt lỗi: %v", err)
	}

	hashed, err := hashPassword("MatKhau@123", salt)
	if err != nil {
		t.Fatalf("hashPassword lỗi: %v", err)
	}
	if hashed == "MatKhau@123" {
		t.Error("hashPassword trả về plaintext")
	}

	if !comparePassword(hashed, "MatKhau@123", salt) {
		t.Error("comparePassword với đúng mật khẩu và salt trả về false")
	}
	if comparePassword(hashed, "MatKhauSai", salt) {
		t.Error("comparePassword với mật khẩu sai trả về true")
	}
	if comparePassword(hashed, "MatKhau@123", "salt-khac") {
		t.Error("comparePassword với salt sai trả về true")
	}
}

// Cùng mật khẩu nhưng khác salt phải sinh ra hash khác nhau
func TestHashPasswordDifferentSalts(t *testing.T) {
	h1, err := hashPassword("MatKhau@123", "salt-1")
	if err != nil {
		t.Fatalf("hashPassword lỗi: %v", err)
	}
	h2, err := hashPassword("MatKhau@123", "salt-2")
	if err != nil {
		t.Fatalf("hashPassword lỗi: %v", err)
	}
	if h1 == h2 {
		t.Error("Hai salt khác nhau sinh ra cùng một hash")
	}
}
