package validator

import (
	"context"
	"strings"
	"testing"
)

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Hello World", true},
		{"See you at 9:00 AM - bring ID!", true},
		{"Hello 😀", false},
		{"Hello <b>bold</b>", false},
		{"Hello café", false},
		{"Sunny ☀", false},
		{"a < b", true},
	}
	for _, tt := range tests {
		if got := IsPlainText(tt.in); got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestIsDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-11-01", true},
		{"2024-02-29", true},
		{"2025-02-30", false},
		{"2025-1-01", false},
		{"2025-11-01T00:00:00Z", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDate(tt.in); got != tt.want {
			t.Fatalf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestIsEmailAndURL(t *testing.T) {
	if !IsEmail("tickets@example.com") {
		t.Fatal("expected valid email")
	}
	if IsEmail("not-an-email") {
		t.Fatal("expected invalid email")
	}
	if !IsURL("https://cdn.example.com/a.png") {
		t.Fatal("expected valid url")
	}
	if IsURL("cdn/a.png") {
		t.Fatal("expected invalid url")
	}
}

type registrationRequest struct {
	Email string `validate:"required,email"`
	Note  string `validate:"plaintext"`
}

func TestValidateReportsFirstError(t *testing.T) {
	err := Validate(context.Background(), registrationRequest{Email: "a@b.co", Note: "<i>hi</i>"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "Text must be plain text only") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !strings.HasSuffix(err.Error(), "registrationRequest.Note") {
		t.Fatalf("expected namespace suffix, got %q", err.Error())
	}

	if err := Validate(context.Background(), registrationRequest{Email: "a@b.co", Note: "hi"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}
