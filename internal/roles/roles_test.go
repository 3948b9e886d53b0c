package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, r := range All() {
		parsed, ok := Parse(string(r))
		assert.True(t, ok)
		assert.Equal(t, r, parsed)
	}

	_, ok := Parse("owner")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
}

func TestForAccountType(t *testing.T) {
	assert.Equal(t, Vendor, ForAccountType("vendor"))
	assert.Equal(t, Buyer, ForAccountType("client"))
	assert.Equal(t, Buyer, ForAccountType(""))
}

func TestCanManage(t *testing.T) {
	admin := []Role{Admin}
	superAdmin := []Role{Admin, SuperAdmin}

	// Only super_admin may grant or revoke super_admin.
	assert.False(t, CanManage(admin, SuperAdmin))
	assert.True(t, CanManage(superAdmin, SuperAdmin))

	// Other roles are open to any actor that reached the admin surface.
	assert.True(t, CanManage(admin, Vendor))
	assert.True(t, CanManage(admin, Admin))
	assert.True(t, CanManage(superAdmin, Buyer))
}
