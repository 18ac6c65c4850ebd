package ports

// PasswordHasher turns plaintext passwords into salted one-way hashes.
// Hash produces a different value on every call for the same plaintext;
// Verify reports false for any mismatch and never errors on a plain
// wrong-password input.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
