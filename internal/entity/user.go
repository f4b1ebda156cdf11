package entity

import "github.com/google/uuid"

// db model. Credentials and sessions live with the identity collaborator;
// the core only needs the id and the role.
type User struct {
	Id        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt string    `json:"createdAt" db:"created_at"`
}
