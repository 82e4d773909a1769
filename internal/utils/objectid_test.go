package utils

import "testing"

func TestIsObjectID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"67f1b6a160b6731321647600", true},
		{"67F1B6A160B6731321647600", true},
		{"67f1b6a160b673132164760", false},
		{"67f1b6a160b67313216476000", false},
		{"zzf1b6a160b6731321647600", false},
		{"", false},
		{"not-an-id", false},
	}

	for _, tt := range tests {
		if got := IsObjectID(tt.in); got != tt.want {
			t.Fatalf("IsObjectID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewObjectID_IsValidAndUnique(t *testing.T) {
	a := NewObjectID()
	b := NewObjectID()

	if !IsObjectID(a) || !IsObjectID(b) {
		t.Fatalf("generated ids must be valid, got %q and %q", a, b)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}
