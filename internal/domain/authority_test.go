package domain

import "testing"

func TestRoleOrdering(t *testing.T) {
	// Lower numeric value is higher privilege.
	if !RoleCreator.AtLeast(RoleWriter) {
		t.Error("creator should outrank writer")
	}
	if !RoleWriter.AtLeast(RoleReader) {
		t.Error("writer should outrank reader")
	}
	if RoleReader.AtLeast(RoleWriter) {
		t.Error("reader should not outrank writer")
	}
	if !RoleCreator.AtLeast(RoleCreator) {
		t.Error("equal roles satisfy AtLeast")
	}
	if RoleLeft.AtLeast(RoleReader) {
		t.Error("left should not outrank reader")
	}
}

func TestRoleActive(t *testing.T) {
	for _, r := range []Role{RoleCreator, RoleWriter, RoleReader} {
		if !r.Active() {
			t.Errorf("%s should be active", r)
		}
	}
	if RoleLeft.Active() {
		t.Error("left should not be active")
	}
	if Role(42).Active() {
		t.Error("undefined role should not be active")
	}
}

func TestRoleCanShare(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleCreator, true},
		{RoleWriter, true},
		{RoleReader, false},
		{RoleLeft, false},
	}
	for _, tt := range tests {
		if got := tt.role.CanShare(); got != tt.want {
			t.Errorf("%s.CanShare() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"creator", RoleCreator, true},
		{"writer", RoleWriter, true},
		{"reader", RoleReader, true},
		{"left", RoleLeft, true},
		{"owner", RoleLeft, false},
		{"", RoleLeft, false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRole(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRoleString_RoundTrip(t *testing.T) {
	for _, r := range []Role{RoleCreator, RoleWriter, RoleReader, RoleLeft} {
		got, ok := ParseRole(r.String())
		if !ok || got != r {
			t.Errorf("ParseRole(%q) = (%v, %v), want (%v, true)", r.String(), got, ok, r)
		}
	}
}
