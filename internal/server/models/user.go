package models

import "strings"

// User is an API account.
type User struct {
	ID          string
	UserName    string
	IsActive    bool
	IsSuperuser bool
}

// UserProfile binds a user to the single node it acts for.
type UserProfile struct {
	UserID string
	Node   string
}

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID      string
	UserName    string
	IsSuperuser bool
	// Permissions holds codenames such as "change_transfer".
	Permissions map[string]struct{}
	// Node is the namespace from the user's profile, empty without one.
	Node string
}

// Codename builds a permission codename, e.g. Codename("view", "node").
func Codename(action, model string) string {
	return strings.ToLower(action) + "_" + model
}

// HasPermission reports whether the identity holds codename. Superusers
// hold every permission.
func (i *Identity) HasPermission(codename string) bool {
	if i == nil {
		return false
	}
	if i.IsSuperuser {
		return true
	}
	_, ok := i.Permissions[codename]
	return ok
}

// HasProfile reports whether the identity is bound to a node.
func (i *Identity) HasProfile() bool {
	return i != nil && i.Node != ""
}
