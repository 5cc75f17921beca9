package auth

import "golang.org/x/crypto/bcrypt"

// dummyDigest is a digest of an unguessable random value. Authenticate
// compares against it when the user does not exist so that the lookup-miss
// and wrong-password paths cost the same.
var dummyDigest = func() []byte {
	d, err := bcrypt.GenerateFromPassword([]byte("filecrate-dummy-7c02ba1f"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return d
}()

// HashPassword produces a bcrypt digest of password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// VerifyDummy burns a bcrypt comparison without revealing anything. It always
// returns false.
func VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
	return false
}
