package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleDoctor, RoleFrontDesk, RoleStaff} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleSetEffective(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleSet{RoleStaff, RoleAdmin}.Effective())
	assert.Equal(t, RoleDoctor, RoleSet{RoleDoctor, RoleFrontDesk}.Effective())
	assert.Equal(t, RoleStaff, RoleSet{}.Effective())
}

func TestRoleSetValue(t *testing.T) {
	v, err := RoleSet{RoleAdmin, RoleDoctor}.Value()
	assert.NoError(t, err)
	assert.JSONEq(t, `["admin","doctor"]`, string(v.([]byte)))

	// Nil defaults to the lowest privilege rather than an empty list.
	v, err = RoleSet(nil).Value()
	assert.NoError(t, err)
	assert.JSONEq(t, `["staff"]`, string(v.([]byte)))
}

func TestRoleSetScan(t *testing.T) {
	var rs RoleSet
	assert.NoError(t, rs.Scan([]byte(`["admin","staff"]`)))
	assert.True(t, rs.Has(RoleAdmin))
	assert.True(t, rs.Has(RoleStaff))
	assert.False(t, rs.Has(RoleDoctor))

	var fromString RoleSet
	assert.NoError(t, fromString.Scan(`["doctor"]`))
	assert.True(t, fromString.Has(RoleDoctor))

	var fromNil RoleSet
	assert.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)

	assert.Error(t, rs.Scan(42))
}

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"bp": "120/80", "pulse": float64(70)}

	v, err := m.Value()
	assert.NoError(t, err)

	var out JSONMap
	assert.NoError(t, out.Scan(v))
	assert.Equal(t, m, out)
}
