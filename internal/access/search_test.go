package access

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory() Directory {
	var d Directory
	for i := 1; i <= 8; i++ {
		d.Users = append(d.Users, user(fmt.Sprintf("u%d", i), fmt.Sprintf("User %d", i)))
	}
	d.Groups = append(d.Groups,
		group("g1", "Ops"),
		group("g2", "Engineering"),
		group("g3", "Support"),
	)
	return d
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	d := Directory{
		Users: []Principal{
			user("u1", "Alice Jones"),
			user("u2", "Bob Smith"),
		},
		Groups: []Principal{group("g1", "OpsTeam")},
	}

	res := d.Search("ALICE", nil)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "u1", res.Users[0].ID)
	assert.Empty(t, res.Groups)

	res = d.Search("opstea", nil)
	require.Len(t, res.Groups, 1)

	// email matches too
	res = d.Search("bob smith@", nil)
	assert.Empty(t, res.Users)
	res = d.Search("bob smith", nil)
	require.Len(t, res.Users, 1)
}

func TestSearchLimits(t *testing.T) {
	d := testDirectory()
	res := d.Search("", nil)
	assert.Len(t, res.Users, MaxUserResults)
	assert.Len(t, res.Groups, 3)
}

func TestSearchExcludesSelected(t *testing.T) {
	d := testDirectory()
	s := NewSelection()
	s.ToggleSelection(d.Users[0])
	s.ToggleSelection(d.Groups[0])

	res := d.Search("", s)
	for _, u := range res.Users {
		assert.NotEqual(t, d.Users[0].ID, u.ID)
	}
	for _, g := range res.Groups {
		assert.NotEqual(t, d.Groups[0].ID, g.ID)
	}
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	d := testDirectory()

	p := d.Resolve(GrantRef{PrincipalID: "u1", PrincipalType: PrincipalUser})
	assert.Equal(t, "User 1", p.DisplayName)

	p = d.Resolve(GrantRef{PrincipalID: "vanished", PrincipalType: PrincipalUser})
	assert.Equal(t, "vanished", p.DisplayName)
	assert.Equal(t, PrincipalUser, p.Type)
}
