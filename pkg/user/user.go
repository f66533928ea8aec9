package user

// User is the authenticated principal as supplied by the external identity
// provider. The opaque Uid keys all mirror records.
type User struct {
	Uid string
}
