package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher hashes and verifies account passwords.
//
// Hashes are salted and deliberately slow. Compare runs in time independent
// of where the inputs differ.
type PasswordHasher interface {
	// Hash returns the encoded hash of password. The plaintext is never
	// part of the result.
	Hash(password string) (string, error)

	// Compare returns nil when password matches hash and
	// ErrPasswordMismatch otherwise.
	Compare(hash, password string) error

	// CompareDummy spends the same time as a failed Compare. It is used
	// when the account does not exist so timing does not reveal that.
	CompareDummy(password string)
}
