package registry

import (
	"errors"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("users", "collection-users")
	if err != nil {
		t.Fatalf("Register lỗi: %v", err)
	}
	if !isNew {
		t.Error("Register lần đầu trả về isNew = false, muốn true")
	}

	// Ghi đè item cùng tên
	isNew, err = r.Register("users", "collection-users-v2")
	if err != nil {
		t.Fatalf("Register ghi đè lỗi: %v", err)
	}
	if isNew {
		t.Error("Register ghi đè trả về isNew = true, muốn false")
	}

	item, exists := r.Get("users")
	if !exists {
		t.Fatal("Get không tìm thấy item đã đăng ký")
	}
	if item != "collection-users-v2" {
		t.Errorf("Get = %q, muốn %q", item, "collection-users-v2")
	}

	if _, exists := r.Get("leads"); exists {
		t.Error("Get trả về exists = true cho item chưa đăng ký")
	}
}

func TestRegistryRegisterEmptyName(t *testing.T) {
	r := NewRegistry[int]()
	if _, err := r.Register("", 1); err == nil {
		t.Error("Register với name rỗng phải trả về lỗi")
	}
}

func TestRegistryMustGetPanics(t *testing.T) {
	r := NewRegistry[int]()
	defer func() {
		if recover() == nil {
			t.Error("MustGet với item chưa đăng ký phải panic")
		}
	}()
	r.MustGet("missing")
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry[int]()
	calls := 0
	creator := func() (int, error) {
		calls++
		return 42, nil
	}

	item, err := r.GetOrCreate("answer", creator)
	if err != nil {
		t.Fatalf("GetOrCreate lỗi: %v", err)
	}
	if item != 42 {
		t.Errorf("GetOrCreate = %d, muốn 42", item)
	}

	// Lần hai phải trả về item cũ, không gọi creator nữa
	item, err = r.GetOrCreate("answer", creator)
	if err != nil {
		t.Fatalf("GetOrCreate lần hai lỗi: %v", err)
	}
	if item != 42 {
		t.Errorf("GetOrCreate lần hai = %d, muốn 42", item)
	}
	if calls != 1 {
		t.Errorf("creator được gọi %d lần, muốn 1", calls)
	}

	// Creator lỗi thì không lưu gì vào registry
	_, err = r.GetOrCreate("broken", func() (int, error) {
		return 0, errors.New("tạo thất bại")
	})
	if err == nil {
		t.Error("GetOrCreate với creator lỗi phải trả về lỗi")
	}
	if _, exists := r.Get("broken"); exists {
		t.Error("Item lỗi vẫn bị lưu vào registry")
	}
}

func TestRegistryClear(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "item-a")

	cleaned := false
	deleted, err := r.Clear("a", func(item string) error {
		cleaned = true
		return nil
	})
	if err != nil {
		t.Fatalf("Clear lỗi: %v", err)
	}
	if !deleted {
		t.Error("Clear trả về deleted = false, muốn true")
	}
	if !cleaned {
		t.Error("Cleanup không được gọi")
	}
	if _, exists := r.Get("a"); exists {
		t.Error("Item vẫn tồn tại sau Clear")
	}

	// Clear item không tồn tại
	deleted, err = r.Clear("a", nil)
	if err != nil {
		t.Fatalf("Clear item không tồn tại lỗi: %v", err)
	}
	if deleted {
		t.Error("Clear item không tồn tại trả về deleted = true")
	}

	// Cleanup lỗi thì không xóa
	r.Register("b", "item-b")
	deleted, err = r.Clear("b", func(item string) error {
		return errors.New("cleanup thất bại")
	})
	if err == nil {
		t.Error("Clear với cleanup lỗi phải trả về lỗi")
	}
	if deleted {
		t.Error("Clear với cleanup lỗi vẫn xóa item")
	}
	if _, exists := r.Get("b"); !exists {
		t.Error("Item bị xóa dù cleanup lỗi")
	}
}

func TestRegistryClearAll(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("x", 1)
	r.Register("y", 2)

	count, err := r.ClearAll(nil)
	if err != nil {
		t.Fatalf("ClearAll lỗi: %v", err)
	}
	if count != 2 {
		t.Errorf("ClearAll count = %d, muốn 2", count)
	}
	if _, exists := r.Get("x"); exists {
		t.Error("Item vẫn tồn tại sau ClearAll")
	}
}
