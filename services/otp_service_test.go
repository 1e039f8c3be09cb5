package services

import "testing"

func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
		seen[code] = true
	}

	// 50 draws from a million-value space should not all collide.
	if len(seen) < 2 {
		t.Error("expected varying codes across draws")
	}
}
