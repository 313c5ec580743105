package types

// ContextUserKey is the gin context key the auth middleware stores the
// authenticated user under.
const ContextUserKey = "user"

// UserResponse is the shape of a user exposed to clients. The password hash
// never leaves the server.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
