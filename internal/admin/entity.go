// AngelaMos | 2026
// entity.go

package admin

import (
	"time"
)

// Account is a back-office administrator identity, separate from the
// influencer store. Admins hold every capability.
type Account struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
