package validator

import "testing"

func TestValidateRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		email     string
		username  string
		password  string
		wantField string
	}{
		{"valid", "alice@x.com", "alice", "Sup3rSecret", ""},
		{"missing email", "", "alice", "Sup3rSecret", "email"},
		{"malformed email", "not-an-address", "alice", "Sup3rSecret", "email"},
		{"missing username", "alice@x.com", "", "Sup3rSecret", "username"},
		{"short username", "alice@x.com", "al", "Sup3rSecret", "username"},
		{"bad username chars", "alice@x.com", "al ice!", "Sup3rSecret", "username"},
		{"short password", "alice@x.com", "alice", "Ab1", "password"},
		{"no uppercase", "alice@x.com", "alice", "sup3rsecret", "password"},
		{"no digit", "alice@x.com", "alice", "SuperSecret", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.email, tt.username, "Alice", "Anders", tt.password)
			if tt.wantField == "" {
				if errs.HasErrors() {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected an error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	if errs := ValidateLogin("alice@x.com", "whatever"); errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := ValidateLogin("", ""); len(errs) != 2 {
		t.Fatalf("want email and password errors, got %v", errs)
	}

	// Login never applies the strength rules; any non-empty password passes.
	if errs := ValidateLogin("alice@x.com", "x"); errs.HasErrors() {
		t.Fatalf("login must not enforce password strength: %v", errs)
	}
}

func TestValidateChangePassword(t *testing.T) {
	t.Parallel()

	if errs := ValidateChangePassword("old", "NewSecret1"); errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := ValidateChangePassword("", "weak"); len(errs) != 2 {
		t.Fatalf("want current_password and password errors, got %v", errs)
	}
}

func TestValidateConfirm(t *testing.T) {
	t.Parallel()

	if errs := ValidateConfirm("abc123", "alice@x.com"); errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := ValidateConfirm("   ", "alice@x.com"); errs["token"] == "" {
		t.Fatalf("blank token accepted: %v", errs)
	}
	if errs := ValidateConfirm("abc123", "nope"); errs["email"] == "" {
		t.Fatalf("bad email accepted: %v", errs)
	}
}
