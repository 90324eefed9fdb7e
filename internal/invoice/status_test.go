package invoice

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
	}{
		{"", StatusUnset},
		{"  ", StatusUnset},
		{"unset", StatusUnset},
		{"Undefined", StatusUnset},
		{"none", StatusUnset},
		{"draft", StatusDraft},
		{" Validated ", StatusValidated},
		{"PAID", StatusPaid},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if err != nil {
			t.Fatalf("ParseStatus(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseStatus("refunded"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestStatusesExcludesSentinel(t *testing.T) {
	statuses := Statuses()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 concrete statuses, got %d", len(statuses))
	}
	for _, s := range statuses {
		if s.IsUnset() {
			t.Fatalf("Statuses must not include the unset sentinel")
		}
	}
	statuses[0] = StatusPaid
	if Statuses()[0] != StatusDraft {
		t.Fatalf("Statuses must return a copy")
	}
}

func TestStatusNames(t *testing.T) {
	if StatusUnset.String() != "unset" {
		t.Fatalf("unexpected sentinel string %q", StatusUnset.String())
	}
	if StatusUnset.MessageKey() != "status.unset" {
		t.Fatalf("unexpected sentinel key %q", StatusUnset.MessageKey())
	}
	if StatusValidated.FriendlyName() != "Validated" {
		t.Fatalf("unexpected friendly name %q", StatusValidated.FriendlyName())
	}
	if Status("bogus").IsValid() {
		t.Fatalf("bogus status must be invalid")
	}
}
