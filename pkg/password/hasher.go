package password

// Hasher defines the interface for password hashing implementations
type Hasher interface {
	// Hash hashes a password
	Hash(password string) (string, error)

	// Verify checks that the provided password matches the stored hash.
	// A mismatch is an authentication failure, not a server error.
	Verify(password, hashedPassword string) error
}
