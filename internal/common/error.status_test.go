package common

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorIs(t *testing.T) {
	if !errors.Is(ErrNotFound, ErrNotFound) {
		t.Error("errors.Is(ErrNotFound, ErrNotFound) = false, muốn true")
	}
	if errors.Is(ErrNotFound, ErrDuplicate) {
		t.Error("errors.Is(ErrNotFound, ErrDuplicate) = true, muốn false")
	}

	// Wrap qua fmt.Errorf vẫn phải match
	wrapped := fmt.Errorf("thao tác thất bại: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is không nhận ra ErrNotFound đã wrap")
	}
}

func TestNewError(t *testing.T) {
	err := NewError(ErrCodeValidationInput, "Dữ liệu sai", StatusBadRequest, "chi tiết")

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("NewError không trả về *Error")
	}
	if appErr.Code.Code != "VAL_001" {
		t.Errorf("Code = %q, muốn VAL_001", appErr.Code.Code)
	}
	if appErr.StatusCode != StatusBadRequest {
		t.Errorf("StatusCode = %d, muốn %d", appErr.StatusCode, StatusBadRequest)
	}
	if appErr.Error() != "Dữ liệu sai" {
		t.Errorf("Error() = %q, muốn %q", appErr.Error(), "Dữ liệu sai")
	}
}

func TestConvertMongoError(t *testing.T) {
	if got := ConvertMongoError(nil); got != nil {
		t.Errorf("ConvertMongoError(nil) = %v, muốn nil", got)
	}

	// mongo.ErrNoDocuments -> ErrNotFound
	if got := ConvertMongoError(mongo.ErrNoDocuments); !errors.Is(got, ErrNotFound) {
		t.Errorf("ConvertMongoError(ErrNoDocuments) = %v, muốn ErrNotFound", got)
	}

	// ErrNotFound đã convert rồi thì giữ nguyên, không convert lần hai
	if got := ConvertMongoError(ErrNotFound); !errors.Is(got, ErrNotFound) {
		t.Errorf("ConvertMongoError(ErrNotFound) = %v, muốn giữ nguyên ErrNotFound", got)
	}

	// Lỗi lạ -> error có mã DB và status 500
	got := ConvertMongoError(errors.New("lỗi không xác định"))
	var appErr *Error
	if !errors.As(got, &appErr) {
		t.Fatal("ConvertMongoError không trả về *Error cho lỗi lạ")
	}
	if appErr.Code.Code != ErrCodeDatabase.Code {
		t.Errorf("Code = %q, muốn %q", appErr.Code.Code, ErrCodeDatabase.Code)
	}
	if appErr.StatusCode != StatusInternalServerError {
		t.Errorf("StatusCode = %d, muốn %d", appErr.StatusCode, StatusInternalServerError)
	}
}

func TestConvertMongoErrorCommandError(t *testing.T) {
	cases := []struct {
		code int32
		want error
	}{
		{150, ErrMongoConnection},
		{250, ErrMongoAuth},
		{350, ErrMongoQuery},
		{450, ErrMongoWrite},
		{999, ErrMongoSystem},
	}
	for _, tc := range cases {
		err := mongo.CommandError{Code: tc.code, Message: "lỗi thử nghiệm"}
		if got := ConvertMongoError(err); !errors.Is(got, tc.want) {
			t.Errorf("ConvertMongoError(CommandError{Code: %d}) = %v, muốn %v", tc.code, got, tc.want)
		}
	}
}
