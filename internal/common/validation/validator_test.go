package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/user-profile/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
)

func newTestValidator() *Validator {
	return New(clock.NewMockClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)))
}

func fieldNames(fields []commonerrors.FieldError) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Message
	}
	return out
}

func validRegistration() RegistrationInput {
	return RegistrationInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Phone:    "1234567890",
		DOB:      "1990-01-02",
	}
}

func TestValidateRegistration_Valid(t *testing.T) {
	v := newTestValidator()
	if fields := v.ValidateRegistration(validRegistration()); len(fields) != 0 {
		t.Fatalf("expected no errors, got %+v", fields)
	}
}

func TestValidateRegistration_ReportsAllFields(t *testing.T) {
	v := newTestValidator()

	fields := v.ValidateRegistration(RegistrationInput{
		Username: "al",
		Email:    "not-an-email",
		Password: "123",
		Phone:    "12ab",
		DOB:      "",
	})

	got := fieldNames(fields)
	for _, name := range []string{"username", "email", "password", "phone", "dob"} {
		if _, ok := got[name]; !ok {
			t.Errorf("expected error for %s, got %+v", name, fields)
		}
	}
	if got["phone"] != "phone must contain 10 to 15 digits" {
		t.Errorf("unexpected phone message %q", got["phone"])
	}
	if got["dob"] != "dob is required" {
		t.Errorf("unexpected dob message %q", got["dob"])
	}
	if got["username"] != "username must be between 3 and 32 characters" {
		t.Errorf("unexpected username message %q", got["username"])
	}
}

func TestValidateRegistration_PhoneBounds(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		phone string
		ok    bool
	}{
		{"123456789", false},
		{"1234567890", true},
		{"123456789012345", true},
		{"1234567890123456", false},
		{"+1234567890", false},
	}

	for _, tt := range tests {
		in := validRegistration()
		in.Phone = tt.phone
		fields := v.ValidateRegistration(in)
		if (len(fields) == 0) != tt.ok {
			t.Errorf("phone %q: ok=%v, fields=%+v", tt.phone, tt.ok, fields)
		}
	}
}

func TestValidateRegistration_PasswordByteLimit(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"72 ascii bytes", strings.Repeat("a", 72), true},
		{"73 ascii bytes", strings.Repeat("a", 73), false},
		{"36 two-byte runes", strings.Repeat("é", 36), true},
		{"40 two-byte runes", strings.Repeat("é", 40), false},
	}

	for _, tt := range tests {
		in := validRegistration()
		in.Password = tt.password
		got := fieldNames(v.ValidateRegistration(in))
		msg, failed := got["password"]
		if failed == tt.ok {
			t.Errorf("%s: ok=%v, fields=%+v", tt.name, tt.ok, got)
		}
		if tt.name == "40 two-byte runes" && msg != "password must be at most 72 bytes" {
			t.Errorf("unexpected password message %q", msg)
		}
	}
}

func TestValidateProfile_Dates(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name string
		dob  string
		msg  string
	}{
		{"calendar date", "2000-02-29", ""},
		{"rfc3339", "2000-02-29T10:00:00Z", ""},
		{"today", "2024-06-15", ""},
		{"not a date", "29/02/2000", "dob must be a valid ISO 8601 date"},
		{"future", "2024-06-16", "dob must not be in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := v.ValidateProfile(ProfileInput{Email: "a@b.co", Phone: "1234567890", DOB: tt.dob})
			got := fieldNames(fields)
			if tt.msg == "" {
				if len(fields) != 0 {
					t.Fatalf("expected no errors, got %+v", fields)
				}
				return
			}
			if got["dob"] != tt.msg {
				t.Errorf("expected %q, got %+v", tt.msg, fields)
			}
		})
	}
}

func TestValidateLogin_RequiresBothFields(t *testing.T) {
	v := newTestValidator()

	got := fieldNames(v.ValidateLogin(LoginInput{}))
	if got["username"] != "username is required" || got["password"] != "password is required" {
		t.Errorf("unexpected errors %+v", got)
	}

	if fields := v.ValidateLogin(LoginInput{Username: "alice@example.com", Password: "x"}); len(fields) != 0 {
		t.Errorf("expected no errors, got %+v", fields)
	}
}

func TestError_NilWhenNoFields(t *testing.T) {
	if err := Error(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	err := Error([]commonerrors.FieldError{{Field: "email", Message: "email is required"}})
	if _, ok := commonerrors.AsValidationError(err); !ok {
		t.Errorf("expected ValidationError, got %T", err)
	}
}

func TestNormalizeAndFormat(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("unexpected email %q", got)
	}

	d, err := ParseDate("1990-01-02T23:30:00+02:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatDate(d); got != "1990-01-02" {
		t.Errorf("unexpected date %q", got)
	}
	if FormatDate(time.Time{}) != "" {
		t.Error("expected empty string for zero time")
	}
}
