package domain

import "testing"

func TestUser_AliasAccessors(t *testing.T) {
	tests := []struct {
		name      string
		aliasType AliasType
		value     string
		check     func(t *testing.T, u *User)
	}{
		{
			name:      "set email alias",
			aliasType: AliasTypeEmail,
			value:     "aaron@example.com",
			check: func(t *testing.T, u *User) {
				if u.Email != "aaron@example.com" {
					t.Errorf("expected email set, got %q", u.Email)
				}
				if u.Mobile != "" {
					t.Errorf("expected mobile untouched, got %q", u.Mobile)
				}
				if got := u.Alias(AliasTypeEmail); got != "aaron@example.com" {
					t.Errorf("Alias(EMAIL) = %q", got)
				}
			},
		},
		{
			name:      "set mobile alias",
			aliasType: AliasTypeMobile,
			value:     "+15551234567",
			check: func(t *testing.T, u *User) {
				if u.Mobile != "+15551234567" {
					t.Errorf("expected mobile set, got %q", u.Mobile)
				}
				if u.Email != "" {
					t.Errorf("expected email untouched, got %q", u.Email)
				}
				if got := u.Alias(AliasTypeMobile); got != "+15551234567" {
					t.Errorf("Alias(MOBILE) = %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{}
			u.SetAlias(tt.aliasType, tt.value)
			tt.check(t, u)
		})
	}
}

func TestUser_VerifiedAccessors(t *testing.T) {
	u := &User{}

	if u.AliasVerified(AliasTypeEmail) || u.AliasVerified(AliasTypeMobile) {
		t.Fatal("new user should have no verified aliases")
	}

	u.SetAliasVerified(AliasTypeEmail, true)
	if !u.EmailVerified {
		t.Error("expected EmailVerified true")
	}
	if u.MobileVerified {
		t.Error("expected MobileVerified untouched")
	}

	u.SetAliasVerified(AliasTypeMobile, true)
	u.SetAliasVerified(AliasTypeEmail, false)
	if u.EmailVerified {
		t.Error("expected EmailVerified reset")
	}
	if !u.AliasVerified(AliasTypeMobile) {
		t.Error("expected MobileVerified true")
	}
}

func TestNewAuditEvent_Builders(t *testing.T) {
	token := &CallbackToken{
		ID:          "tok-1",
		UserID:      42,
		ToAliasType: AliasTypeEmail,
		ToAlias:     "aaron@example.com",
	}

	event := NewAuditEvent(TokenRejectedEvent).WithToken(token).WithError(ErrTokenExpired)

	if event.Success {
		t.Error("expected Success false after WithError")
	}
	if event.UserID != 42 || event.TokenID != "tok-1" {
		t.Errorf("token fields not populated: %+v", event)
	}
	if event.Alias != "aaron@example.com" || event.AliasType != AliasTypeEmail {
		t.Errorf("alias fields not populated: %+v", event)
	}
	if event.ErrorMsg != ErrTokenExpired.Error() {
		t.Errorf("unexpected error message %q", event.ErrorMsg)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp set")
	}
}
