// Package database - Test parse tag index khai báo trong model.
package database

import "testing"

func TestParseOrder(t *testing.T) {
	if got := parseOrder("single:1,order:-1"); got != -1 {
		t.Errorf("tag chứa order:-1 phải trả về -1, nhận %d", got)
	}
	if got := parseOrder("single:1"); got != 1 {
		t.Errorf("tag không có order phải mặc định 1, nhận %d", got)
	}
}

func TestParseIndexTag(t *testing.T) {
	entries := parseIndexTag("single:1;unique,sparse")
	if len(entries) != 2 {
		t.Fatalf("tag 2 cấu hình phân cách bởi ';' phải cho 2 entries, nhận %d", len(entries))
	}
	if v, ok := entries[0]["single"]; !ok || v != "1" {
		t.Errorf("entry đầu phải có single:1, nhận %v", entries[0])
	}
	if _, ok := entries[1]["unique"]; !ok {
		t.Errorf("entry hai phải có unique, nhận %v", entries[1])
	}
	if _, ok := entries[1]["sparse"]; !ok {
		t.Errorf("entry hai phải có sparse, nhận %v", entries[1])
	}
}

func TestParseIndexTag_TTL(t *testing.T) {
	entries := parseIndexTag("ttl:3600")
	if len(entries) != 1 {
		t.Fatalf("tag ttl phải cho 1 entry, nhận %d", len(entries))
	}
	if v := entries[0]["ttl"]; v != "3600" {
		t.Errorf("ttl phải giữ giá trị giây, nhận %q", v)
	}
}
