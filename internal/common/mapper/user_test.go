package mapper

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
)

func TestUserToDTO_OmitsSecret(t *testing.T) {
	u := userdomain.User{
		ID:           "id-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$secret",
		Phone:        "1234567890",
		DOB:          time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	d := UserToDTO(u)
	if d.DOB != "1990-01-02" {
		t.Errorf("unexpected dob %q", d.DOB)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "password") {
		t.Errorf("secret leaked into JSON: %s", raw)
	}
}
