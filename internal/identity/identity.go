// AngelaMos | 2026
// identity.go

package identity

import (
	"fmt"
	"strings"
)

// Kind distinguishes back-office admin accounts from influencer accounts.
type Kind string

const (
	KindAdmin       Kind = "admin"
	KindInfluenceur Kind = "influenceur"
)

// Permission is an enumerated capability. Checks are keyed by constant,
// never by string interpolation.
type Permission uint8

const (
	PermCreateInfluenceurs Permission = iota
	PermValidateProspects
	PermPayRemises
	PermViewStatistics
	PermManageSystem
	permCount
)

func (p Permission) String() string {
	switch p {
	case PermCreateInfluenceurs:
		return "creer_influenceurs"
	case PermValidateProspects:
		return "valider_prospects"
	case PermPayRemises:
		return "payer_remises"
	case PermViewStatistics:
		return "voir_statistiques"
	case PermManageSystem:
		return "gerer_systeme"
	default:
		return fmt.Sprintf("permission(%d)", uint8(p))
	}
}

// Set is a bitmask of permissions.
type Set uint8

func NewSet(perms ...Permission) Set {
	var s Set
	for _, p := range perms {
		s |= 1 << p
	}
	return s
}

func (s Set) Has(p Permission) bool {
	return s&(1<<p) != 0
}

func (s Set) With(p Permission) Set {
	return s | (1 << p)
}

func (s Set) Strings() []string {
	out := make([]string, 0, permCount)
	for p := Permission(0); p < permCount; p++ {
		if s.Has(p) {
			out = append(out, p.String())
		}
	}
	return out
}

// Encode serializes a set for transport inside a token claim.
func (s Set) Encode() string {
	return strings.Join(s.Strings(), ",")
}

func DecodeSet(encoded string) Set {
	var s Set
	for _, name := range strings.Split(encoded, ",") {
		for p := Permission(0); p < permCount; p++ {
			if p.String() == name {
				s = s.With(p)
			}
		}
	}
	return s
}

// Influencer roles.
const (
	RoleAdmin       = "admin"
	RoleModerateur  = "moderateur"
	RoleInfluenceur = "influenceur"
)

var allPermissions = NewSet(
	PermCreateInfluenceurs,
	PermValidateProspects,
	PermPayRemises,
	PermViewStatistics,
	PermManageSystem,
)

// PermissionsForRole resolves the capability set granted to an influencer
// role. Back-office admins bypass this entirely via Identity.Can.
func PermissionsForRole(role string) Set {
	switch role {
	case RoleAdmin:
		return allPermissions
	case RoleModerateur:
		return NewSet(PermValidateProspects, PermViewStatistics)
	case RoleInfluenceur:
		// Validation is permitted here; ownership checks in the prospect
		// service keep it scoped to the influencer's own prospects.
		return NewSet(PermValidateProspects, PermViewStatistics)
	default:
		return 0
	}
}

// Identity is the resolved caller: a tagged union over admin and influencer
// accounts carrying a uniform permission surface.
type Identity struct {
	Kind        Kind
	ID          string
	Permissions Set
}

func Admin(id string) Identity {
	return Identity{Kind: KindAdmin, ID: id, Permissions: allPermissions}
}

func Influenceur(id string, perms Set) Identity {
	return Identity{Kind: KindInfluenceur, ID: id, Permissions: perms}
}

// Can reports whether the identity holds the capability. Admin identities
// pass every check.
func (i Identity) Can(p Permission) bool {
	if i.Kind == KindAdmin {
		return true
	}
	return i.Permissions.Has(p)
}

func (i Identity) IsAdmin() bool {
	return i.Kind == KindAdmin
}

// Owns reports whether the identity may act on resources belonging to the
// given influencer. Admins own everything.
func (i Identity) Owns(influenceurID string) bool {
	if i.Kind == KindAdmin {
		return true
	}
	return i.ID == influenceurID
}

// Subject encodes the identity for the JWT subject claim.
func (i Identity) Subject() string {
	return string(i.Kind) + ":" + i.ID
}

// ParseSubject recovers kind and account ID from a token subject claim.
func ParseSubject(subject string) (Kind, string, error) {
	kind, id, ok := strings.Cut(subject, ":")
	if !ok || id == "" {
		return "", "", fmt.Errorf("malformed subject %q", subject)
	}

	switch Kind(kind) {
	case KindAdmin, KindInfluenceur:
		return Kind(kind), id, nil
	default:
		return "", "", fmt.Errorf("unknown identity kind %q", kind)
	}
}
