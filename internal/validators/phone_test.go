package validators

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+55 11 91234-5678": "+5511912345678",
		"(212) 555-0100":    "+2125550100",
		"447700900123":      "+447700900123",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		if err != nil {
			t.Errorf("NormalizePhone(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, in := range []string{"", "+0123", "abc", "+1234567890123456", "12a45"} {
		if _, err := NormalizePhone(in); err == nil {
			t.Errorf("NormalizePhone(%q) should fail", in)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Salon.COM "); got != "ana@salon.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
