package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		input string
		want  Role
		ok    bool
	}{
		{"student", RoleStudent, true},
		{"lecturer", RoleLecturer, true},
		{"admin", RoleAdmin, true},
		{"it_admin", RoleITAdmin, true},
		{"superuser", "", false},
		{"", "", false},
		{"Student", "", false}, // roles are case-sensitive
	}

	for _, tc := range cases {
		got, ok := ParseRole(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseRole(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestAuthorizedAdministrativeOverride(t *testing.T) {
	// Administrative roles pass any requirement, even one that does not
	// name them.
	if !RoleAdmin.Authorized(RoleLecturer) {
		t.Error("admin should satisfy a lecturer requirement")
	}
	if !RoleITAdmin.Authorized(RoleLecturer) {
		t.Error("it_admin should satisfy a lecturer requirement")
	}
	if !RoleITAdmin.Authorized(RoleStudent) {
		t.Error("it_admin should satisfy a student requirement")
	}
}

func TestAuthorizedNonAdministrative(t *testing.T) {
	if !RoleLecturer.Authorized(RoleLecturer) {
		t.Error("lecturer should satisfy a lecturer requirement")
	}
	if RoleStudent.Authorized(RoleLecturer) {
		t.Error("student should not satisfy a lecturer requirement")
	}
	if !RoleStudent.Authorized(RoleStudent, RoleLecturer) {
		t.Error("student should satisfy a requirement that lists student")
	}
}

func TestAuthorizedEmptyRequirementIsAdminOnly(t *testing.T) {
	if RoleStudent.Authorized() {
		t.Error("student should not pass an admin-only check")
	}
	if RoleLecturer.Authorized() {
		t.Error("lecturer should not pass an admin-only check")
	}
	if !RoleAdmin.Authorized() {
		t.Error("admin should pass an admin-only check")
	}
	if !RoleITAdmin.Authorized() {
		t.Error("it_admin should pass an admin-only check")
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleLecturer, RoleAdmin, RoleITAdmin} {
		if !role.IsValid() {
			t.Errorf("%q should be valid", role)
		}
	}
	if Role("root").IsValid() {
		t.Error("unknown role should not be valid")
	}
}
