package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_HasPermission(t *testing.T) {
	id := &Identity{Permissions: map[string]struct{}{"view_node": {}}}

	assert.True(t, id.HasPermission(Codename("view", ModelNode)))
	assert.False(t, id.HasPermission(Codename("change", ModelNode)))

	super := &Identity{IsSuperuser: true}
	assert.True(t, super.HasPermission("anything_at_all"))

	var nilID *Identity
	assert.False(t, nilID.HasPermission("view_node"))
	assert.False(t, nilID.HasProfile())
}

func TestCodename(t *testing.T) {
	assert.Equal(t, "view_transfer", Codename("VIEW", ModelTransfer))
	assert.Equal(t, "add_registryentry", Codename("add", ModelRegistryEntry))
}
