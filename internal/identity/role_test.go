package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role     Role
		users    bool
		settings bool
		office   bool
	}{
		{RoleSuperAdmin, true, true, true},
		{RoleAdmin, true, true, true},
		{RoleStaff, false, false, true},
		{RoleDoctor, false, false, true},
		{RolePatient, false, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.users, tc.role.Can(CapManageUsers))
			assert.Equal(t, tc.settings, tc.role.Can(CapManageSettings))
			assert.Equal(t, tc.office, tc.role.Can(CapBackOffice))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("doctor")
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, r)

	_, err = ParseRole("root")
	assert.Error(t, err)
}

func TestTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer("", "x")
	assert.Error(t, err)

	a, err := NewTokenIssuer("secret-a", "vortex")
	require.NoError(t, err)
	b, err := NewTokenIssuer("secret-b", "vortex")
	require.NoError(t, err)

	sess := Session{ID: "s1", UserID: "u1"}
	sess.IssuedAt = time.Now().UTC()
	sess.ExpiresAt = sess.IssuedAt.Add(time.Hour)
	tok, err := a.Issue(User{ID: "u1", Role: RoleStaff}, sess)
	require.NoError(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.ID)
	assert.Equal(t, "u1", claims.UserID)

	_, err = b.Parse(tok)
	assert.Error(t, err)
}
