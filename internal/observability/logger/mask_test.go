package logger

import "testing"

func TestMaskAuthorization(t *testing.T) {
	got := MaskAuthorization("Bearer abcdef1234")
	want := "Bearer ****1234"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskEmail(t *testing.T) {
	got := MaskEmail("ana.perez@example.com")
	want := "****erez@example.com"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := MaskEmail("not-an-email"); got != "****mail" {
		t.Fatalf("expected fully masked value, got %q", got)
	}
}

func TestMaskPhone(t *testing.T) {
	got := MaskPhone("+62811234567")
	want := "****4567"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMaskJSONHidesContactFields(t *testing.T) {
	input := map[string]any{
		"password":  "hunter2",
		"recipient": "ana.perez@example.com",
		"tone":      "friendly",
		"debt": map[string]any{
			"phone": "+62811234567",
		},
	}
	masked := MaskJSON(input)
	if masked["password"] != "****ter2" {
		t.Fatalf("expected masked password, got %v", masked["password"])
	}
	if masked["recipient"] != "****.com" {
		t.Fatalf("expected masked recipient, got %v", masked["recipient"])
	}
	if masked["tone"] != "friendly" {
		t.Fatalf("expected tone untouched, got %v", masked["tone"])
	}
	nested, ok := masked["debt"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map")
	}
	if nested["phone"] != "****4567" {
		t.Fatalf("expected masked phone, got %v", nested["phone"])
	}
}
