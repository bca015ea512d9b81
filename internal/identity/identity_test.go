// AngelaMos | 2026
// identity_test.go

package identity

import (
	"testing"
)

func TestPermissionsForRole(t *testing.T) {
	tests := []struct {
		role    string
		want    []Permission
		notWant []Permission
	}{
		{
			role: RoleAdmin,
			want: []Permission{
				PermCreateInfluenceurs,
				PermValidateProspects,
				PermPayRemises,
				PermViewStatistics,
				PermManageSystem,
			},
		},
		{
			role:    RoleModerateur,
			want:    []Permission{PermValidateProspects, PermViewStatistics},
			notWant: []Permission{PermCreateInfluenceurs, PermPayRemises, PermManageSystem},
		},
		{
			role:    RoleInfluenceur,
			want:    []Permission{PermValidateProspects, PermViewStatistics},
			notWant: []Permission{PermCreateInfluenceurs, PermPayRemises, PermManageSystem},
		},
		{
			role:    "unknown",
			notWant: []Permission{PermViewStatistics},
		},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			set := PermissionsForRole(tt.role)
			for _, p := range tt.want {
				if !set.Has(p) {
					t.Errorf("role %s missing %s", tt.role, p)
				}
			}
			for _, p := range tt.notWant {
				if set.Has(p) {
					t.Errorf("role %s should not have %s", tt.role, p)
				}
			}
		})
	}
}

func TestSetEncodeDecode(t *testing.T) {
	set := NewSet(PermValidateProspects, PermViewStatistics)

	decoded := DecodeSet(set.Encode())
	if decoded != set {
		t.Errorf("round trip mismatch: got %b, want %b", decoded, set)
	}
}

func TestDecodeSetIgnoresUnknownNames(t *testing.T) {
	set := DecodeSet("voir_statistiques,not_a_permission,")

	if !set.Has(PermViewStatistics) {
		t.Error("known name dropped")
	}
	if set != NewSet(PermViewStatistics) {
		t.Errorf("unexpected extra bits: %b", set)
	}
}

func TestDecodeSetEmpty(t *testing.T) {
	if set := DecodeSet(""); set != 0 {
		t.Errorf("empty claim decoded to %b, want empty set", set)
	}
}

func TestAdminCanEverything(t *testing.T) {
	ident := Admin("a1")

	for p := Permission(0); p < permCount; p++ {
		if !ident.Can(p) {
			t.Errorf("admin denied %s", p)
		}
	}
}

func TestInfluenceurCanOnlyGranted(t *testing.T) {
	ident := Influenceur("i1", NewSet(PermViewStatistics))

	if !ident.Can(PermViewStatistics) {
		t.Error("granted permission denied")
	}
	if ident.Can(PermPayRemises) {
		t.Error("ungranted permission allowed")
	}
}

func TestOwns(t *testing.T) {
	admin := Admin("a1")
	inf := Influenceur("i1", 0)

	if !admin.Owns("anyone") {
		t.Error("admin should own everything")
	}
	if !inf.Owns("i1") {
		t.Error("influencer should own itself")
	}
	if inf.Owns("i2") {
		t.Error("influencer should not own another account")
	}
}

func TestSubjectRoundTrip(t *testing.T) {
	tests := []Identity{
		Admin("42"),
		Influenceur("abc-def", 0),
	}

	for _, ident := range tests {
		kind, id, err := ParseSubject(ident.Subject())
		if err != nil {
			t.Fatalf("ParseSubject(%q): %v", ident.Subject(), err)
		}
		if kind != ident.Kind || id != ident.ID {
			t.Errorf("got (%s, %s), want (%s, %s)", kind, id, ident.Kind, ident.ID)
		}
	}
}

func TestParseSubjectRejectsMalformed(t *testing.T) {
	for _, subject := range []string{
		"",
		"admin",
		"admin:",
		"robot:1",
		":1",
	} {
		if _, _, err := ParseSubject(subject); err == nil {
			t.Errorf("ParseSubject(%q) accepted malformed subject", subject)
		}
	}
}
