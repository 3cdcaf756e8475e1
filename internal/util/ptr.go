package util

// Ptr returns a pointer to v. Useful for populating optional fields
// that distinguish "unset" (nil) from an explicit zero value.
func Ptr[T any](v T) *T {
	return &v
}
