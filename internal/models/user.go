package models

// User is the signed-in principal as reported by the auth provider.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}
