// Package permissions decides whether a caller may act on an entity class
// or on a single entity. A Set is evaluated in two phases: Check runs before
// any row is read, CheckObject runs once the target row is loaded. Every
// member of the set must allow the action.
package permissions

import (
	"github.com/dmitrijs2005/dpnode/internal/common"
	"github.com/dmitrijs2005/dpnode/internal/server/models"
)

// Action is the kind of access requested.
type Action string

const (
	View   Action = "view"
	Add    Action = "add"
	Change Action = "change"
	Delete Action = "delete"
)

// Permission is one rule of a Set.
type Permission interface {
	// HasPermission is the class-level check.
	HasPermission(id *models.Identity, action Action) bool
	// HasObjectPermission is the row-level check against a loaded target.
	HasObjectPermission(id *models.Identity, action Action, target any) bool
}

// Set is an ordered list of permissions combined with AND.
type Set []Permission

// Check runs the class-level phase. It returns common.ErrorForbidden when
// any member denies.
func (s Set) Check(id *models.Identity, action Action) error {
	for _, p := range s {
		if !p.HasPermission(id, action) {
			return common.ErrorForbidden
		}
	}
	return nil
}

// CheckObject runs the row-level phase for target.
func (s Set) CheckObject(id *models.Identity, action Action, target any) error {
	for _, p := range s {
		if !p.HasObjectPermission(id, action, target) {
			return common.ErrorForbidden
		}
	}
	return nil
}

// ModelPermissions requires the "<action>_<model>" codename.
type ModelPermissions struct {
	Model string
}

func (m ModelPermissions) HasPermission(id *models.Identity, action Action) bool {
	return id.HasPermission(models.Codename(string(action), m.Model))
}

// HasObjectPermission allows; the model check is class-level only.
func (m ModelPermissions) HasObjectPermission(*models.Identity, Action, any) bool {
	return true
}

// NodeOwned is implemented by entities that belong to a single node.
type NodeOwned interface {
	OwnerNode() string
}

// IsNodeUser allows access to an object only when the caller acts for the
// node that owns it. Superusers get no exemption.
type IsNodeUser struct{}

// HasPermission allows; ownership can only be judged per object.
func (IsNodeUser) HasPermission(*models.Identity, Action) bool {
	return true
}

func (IsNodeUser) HasObjectPermission(id *models.Identity, _ Action, target any) bool {
	owned, ok := target.(NodeOwned)
	if !ok || !id.HasProfile() {
		return false
	}
	return owned.OwnerNode() == id.Node
}
