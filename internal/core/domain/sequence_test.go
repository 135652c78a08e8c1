package domain

import "testing"

func TestNormalizeSequence(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ATGC", "ATGC", true},
		{" atg\ncga\t", "ATGCGA", true},
		{"MKV-*", "MKV-*", true},
		{"", "", false},
		{"   ", "", false},
		{"ATG1", "", false},
		{">header\nATG", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeSequence(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeSequence(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
