package models

// AccessToken is the persisted side of an issued bearer token. The ID is the
// JWT's jti claim; a token only authenticates while its row exists, so
// deleting a user's rows revokes every token they hold.
type AccessToken struct {
	ID        string `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
