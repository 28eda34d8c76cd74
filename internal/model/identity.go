package model

// Identity is what a verified session token proves about the caller.  The
// auth middleware stores it in the request context for downstream handlers.
type Identity struct {
	SubjectID string
	Role      Role
}
