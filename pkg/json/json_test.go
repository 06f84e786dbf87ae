package json

import "testing"

func TestParse(t *testing.T) {
	obj, err := Parse(` {"detail":"unknown method","code":3} `)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if obj["detail"] != "unknown method" {
		t.Fatalf("Unexpected detail %v", obj["detail"])
	}
	for _, bad := range []string{"", "plain text", `["a"]`, `{"a":`} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Expected error for %q", bad)
		}
	}
}

func TestFirstString(t *testing.T) {
	obj, _ := Parse(`{"detail":"","error":"bad key"}`)
	if s, ok := obj.FirstString("detail", "error"); !ok || s != "bad key" {
		t.Fatalf("Expected fallback to error, got %q %v", s, ok)
	}
	obj, _ = Parse(`{"detail":[{"loc":["body","key"]}]}`)
	if s, ok := obj.FirstString("detail", "error"); !ok || s != `[{"loc":["body","key"]}]` {
		t.Fatalf("Expected re-encoded detail, got %q", s)
	}
	obj, _ = Parse(`{"status":"ok"}`)
	if _, ok := obj.FirstString("detail", "error"); ok {
		t.Fatal("Expected no match")
	}
}
