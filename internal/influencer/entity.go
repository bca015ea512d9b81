// AngelaMos | 2026
// entity.go

package influencer

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/fofanamamadou/affiliation-project/internal/identity"
)

// Influenceur owns an affiliation code and the prospects recruited through
// it. The code is generated exactly once at insert and never changes, even
// across profile updates.
type Influenceur struct {
	ID                string     `db:"id"`
	Nom               string     `db:"nom"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password_hash"`
	CodeAffiliation   string     `db:"code_affiliation"`
	Role              string     `db:"role"`
	Actif             bool       `db:"actif"`
	DerniereConnexion *time.Time `db:"derniere_connexion"`
	FailedLogins      int        `db:"failed_logins"`
	LockedUntil       *time.Time `db:"locked_until"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func (i *Influenceur) IsLocked(now time.Time) bool {
	return i.LockedUntil != nil && now.Before(*i.LockedUntil)
}

func (i *Influenceur) Permissions() identity.Set {
	return identity.PermissionsForRole(i.Role)
}

// NewAffiliationCode returns an 8-character lowercase hex code.
func NewAffiliationCode() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:8]
}
