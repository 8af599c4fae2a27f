package render

import "testing"

func TestRenderReplacesAllOccurrences(t *testing.T) {
	got := Render(
		"Dear {customer_name}, {customer_name}, your balance is {amount}.",
		[]string{"customer_name", "amount"},
		map[string]string{"customer_name": "Ana", "amount": "12.34 USD"},
	)
	want := "Dear Ana, Ana, your balance is 12.34 USD."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderUnboundDeclaredPlaceholderIsEmpty(t *testing.T) {
	got := Render(
		"Hello {customer_name}, pay {amount}.",
		[]string{"customer_name", "amount"},
		map[string]string{"amount": "5.00 USD"},
	)
	want := "Hello , pay 5.00 USD."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderUndeclaredTokenStaysVerbatim(t *testing.T) {
	got := Render(
		"Hello {customer_name}, ref {invoice_no}.",
		[]string{"customer_name"},
		map[string]string{"customer_name": "Ana", "invoice_no": "INV-1"},
	)
	want := "Hello Ana, ref {invoice_no}."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderNoPlaceholders(t *testing.T) {
	body := "Static reminder with {braces} untouched."
	if got := Render(body, nil, nil); got != body {
		t.Fatalf("got %q, want %q", got, body)
	}
}

func TestRenderSkipsBlankNames(t *testing.T) {
	got := Render("Value: {x}", []string{"", "  ", "x"}, map[string]string{"x": "1"})
	if got != "Value: 1" {
		t.Fatalf("got %q", got)
	}
}
