package global

import (
	"testing"
)

func TestValidateNoXSS(t *testing.T) {
	InitValidator()

	safe := []string{"Nguyễn Văn A", "Căn hộ 2PN quận 7", ""}
	for _, v := range safe {
		if err := Validate.Var(v, "no_xss"); err != nil {
			t.Errorf("no_xss(%q) báo lỗi: %v", v, err)
		}
	}

	dangerous := []string{
		"<script>alert(1)</script>",
		"javascript:void(0)",
		"<img onerror=alert(1)>",
		"<IFRAME src=x>",
	}
	for _, v := range dangerous {
		if err := Validate.Var(v, "no_xss"); err == nil {
			t.Errorf("no_xss(%q) không báo lỗi, muốn lỗi", v)
		}
	}
}

func TestValidateStrongPassword(t *testing.T) {
	InitValidator()

	valid := []string{
		"MatKhau123",  // hoa + thường + số
		"matkhau@123", // thường + số + đặc biệt
		"MATKHAU@abc", // hoa + thường + đặc biệt
	}
	for _, v := range valid {
		if err := Validate.Var(v, "strong_password"); err != nil {
			t.Errorf("strong_password(%q) báo lỗi: %v", v, err)
		}
	}

	invalid := []string{
		"Ab1@",        // quá ngắn
		"matkhauyeu",  // chỉ 1 nhóm
		"matkhau123",  // chỉ 2 nhóm
		"MATKHAU1234", // chỉ 2 nhóm
	}
	for _, v := range invalid {
		if err := Validate.Var(v, "strong_password"); err == nil {
			t.Errorf("strong_password(%q) không báo lỗi, muốn lỗi", v)
		}
	}
}

func TestValidateLeadStatus(t *testing.T) {
	InitValidator()

	for _, v := range []string{"New", "Contacted", "Viewing", "Negotiation", "Closed"} {
		if err := Validate.Var(v, "lead_status"); err != nil {
			t.Errorf("lead_status(%q) báo lỗi: %v", v, err)
		}
	}

	for _, v := range []string{"", "new", "Open", "Won"} {
		if err := Validate.Var(v, "lead_status"); err == nil {
			t.Errorf("lead_status(%q) không báo lỗi, muốn lỗi", v)
		}
	}
}
