// Package registry - Test các thao tác cơ bản của registry.
package registry

import (
	"sync"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("a", "giá trị a")
	if err != nil || !isNew {
		t.Fatalf("Register lần đầu phải trả về (true, nil), nhận (%v, %v)", isNew, err)
	}

	// Đăng ký trùng tên: ghi đè giá trị cũ, isNew = false
	isNew, err = r.Register("a", "giá trị mới")
	if err != nil {
		t.Fatalf("Register trùng tên không được lỗi: %v", err)
	}
	if isNew {
		t.Error("Register trùng tên phải trả về isNew = false")
	}

	got, exists := r.Get("a")
	if !exists || got != "giá trị mới" {
		t.Errorf("Register trùng tên phải ghi đè giá trị, nhận (%q, %v)", got, exists)
	}

	if _, exists := r.Get("không tồn tại"); exists {
		t.Error("Get tên chưa đăng ký phải trả về exists = false")
	}
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	r := NewRegistry[int]()
	if _, err := r.Register("", 1); err == nil {
		t.Error("Register với tên rỗng phải lỗi")
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("x", 1)

	deleted, err := r.Clear("x", nil)
	if err != nil || !deleted {
		t.Fatalf("Clear phải xóa được item đã đăng ký, nhận (%v, %v)", deleted, err)
	}
	if _, exists := r.Get("x"); exists {
		t.Error("Item đã Clear không được còn trong registry")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_, _ = r.Register("shared", n)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = r.Get("shared")
		}()
	}
	wg.Wait()

	if _, exists := r.Get("shared"); !exists {
		t.Error("Sau các Register song song, item phải tồn tại")
	}
}
