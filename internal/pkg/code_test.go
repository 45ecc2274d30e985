package pkg

import (
	"strings"
	"testing"
)

func TestRandDigits(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := RandDigits(6)
		if err != nil {
			t.Fatalf("rand digits: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("len = %d, want 6", len(code))
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit %q in %s", c, code)
			}
		}
		seen[code] = true
	}
	// 50 连抽全同一个码基本不可能
	if len(seen) == 1 {
		t.Fatal("codes are not random")
	}
}

func TestRandInviteCode(t *testing.T) {
	// 字母表剔除了易混字符
	const alphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	code, err := RandInviteCode(8)
	if err != nil {
		t.Fatalf("rand invite code: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("len = %d, want 8", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("char %q outside alphabet in %s", c, code)
		}
	}
}
