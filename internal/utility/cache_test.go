package utility

import (
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	cache := NewCache(5*time.Minute, 10*time.Minute)
	defer cache.Stop()

	if _, exists := cache.Get("missing"); exists {
		t.Error("Get key chưa set trả về exists = true")
	}

	cache.Set("user:1", "dữ liệu")
	value, exists := cache.Get("user:1")
	if !exists {
		t.Fatal("Get key vừa set trả về exists = false")
	}
	if value != "dữ liệu" {
		t.Errorf("Get = %v, muốn %q", value, "dữ liệu")
	}

	cache.Delete("user:1")
	if _, exists := cache.Get("user:1"); exists {
		t.Error("Key vẫn tồn tại sau Delete")
	}
}

func TestCacheCleanupLoop(t *testing.T) {
	cache := NewCache(10*time.Millisecond, 20*time.Millisecond)
	defer cache.Stop()

	cache.Set("tmp", 1)
	time.Sleep(60 * time.Millisecond)

	if _, exists := cache.Get("tmp"); exists {
		t.Error("Key vẫn tồn tại sau chu kỳ dọn dẹp")
	}
}
