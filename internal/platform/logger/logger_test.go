package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJsZWFybmVySWQiOiJsXzEifQ.sig"
	got := sanitizeKVs([]interface{}{
		"learnerId", "l_1",
		"Authorization", "Bearer abc",
		"jwt_secret", "s3cret",
		"raw", jwtish,
		"dangling",
	})
	want := []interface{}{
		"learnerId", "l_1",
		"Authorization", "[REDACTED]",
		"jwt_secret", "[REDACTED]",
		"raw", "[REDACTED]",
		"dangling",
	}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kv[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "production"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("component", "test").Debug("hello", "token", "x")
	}
}
