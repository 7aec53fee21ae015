package database

import "testing"

func TestParseBackend(t *testing.T) {
	for _, s := range []string{"sqlite", "postgresql", "mysql"} {
		b, err := ParseBackend(s)
		if err != nil {
			t.Fatalf("ParseBackend(%q): %v", s, err)
		}
		if string(b) != s {
			t.Errorf("ParseBackend(%q) = %q", s, b)
		}
	}
}

func TestParseBackend_Invalid(t *testing.T) {
	for _, s := range []string{"", "postgres", "mariadb", "SQLITE"} {
		if _, err := ParseBackend(s); err == nil {
			t.Errorf("ParseBackend(%q): expected error", s)
		}
	}
}
