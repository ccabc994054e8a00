package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account. The password is only ever stored as
// a bcrypt hash, and the email verification code is kept alongside its
// expiry until the account is activated.
type User struct {
	ID                    bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email                 string        `bson:"email" json:"email"`
	PasswordHash          string        `bson:"password" json:"-"`
	EmailVerified         bool          `bson:"emailVerified" json:"emailVerified"`
	VerificationCode      string        `bson:"verificationCode,omitempty" json:"-"`
	VerificationExpiresAt *time.Time    `bson:"verificationExpiresAt,omitempty" json:"-"`
	CreatedAt             time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the safe subset of User returned to clients.
type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToPublic strips credentials and verification state from the user document.
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:            u.ID.Hex(),
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
