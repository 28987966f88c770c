package auth

// User is the domain entity. Role is MERCHANT or ADMIN.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}
