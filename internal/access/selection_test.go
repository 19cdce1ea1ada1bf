package access

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func user(id, name string) Principal {
	return Principal{ID: id, Type: PrincipalUser, DisplayName: name, Email: name + "@example.com"}
}

func group(id, name string) Principal {
	return Principal{ID: id, Type: PrincipalGroup, DisplayName: name}
}

func ref(p Principal) GrantRef {
	return GrantRef{PrincipalID: p.ID, PrincipalType: p.Type}
}

func TestDefaults(t *testing.T) {
	s := NewSelection()
	assert.Equal(t, OwnerOnly, s.AccessType())
	assert.Empty(t, s.SelectedUsers())
	assert.Empty(t, s.SelectedGroups())
}

func TestAddGrantIdempotent(t *testing.T) {
	s := NewSelection()
	s.SetAccessType(SpecificUsers)
	alice := user("u1", "Alice")
	s.ToggleSelection(alice)

	require.True(t, s.AddGrant(PermEdit, ref(alice)))
	once := s.Save()

	require.True(t, s.AddGrant(PermEdit, ref(alice)))
	twice := s.Save()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("grant set changed on repeat add (-once +twice):\n%s", diff)
	}
	assert.Equal(t, []string{"u1"}, twice.CanEditIDs)
}

func TestGrantRequiresSelection(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.AddGrant(PermExecute, GrantRef{PrincipalID: "ghost", PrincipalType: PrincipalUser}))
}

func TestDeselectionCascadesAcrossAllRelations(t *testing.T) {
	s := NewSelection()
	alice := user("u1", "Alice")
	ops := group("g1", "Ops")
	s.ToggleSelection(alice)
	s.ToggleSelection(ops)

	for _, perm := range Permissions {
		require.True(t, s.AddGrant(perm, ref(alice)))
		require.True(t, s.AddGrant(perm, ref(ops)))
	}

	// Deselect alice: every relation must drop her, ops must survive.
	s.ToggleSelection(alice)
	for _, perm := range Permissions {
		assert.False(t, s.HasGrant(perm, ref(alice)), "perm %s still references removed principal", perm)
		assert.True(t, s.HasGrant(perm, ref(ops)), "perm %s lost surviving principal", perm)
	}
}

func TestRecomputeGrantsIsPure(t *testing.T) {
	g := NewGrants()
	dangling := GrantRef{PrincipalID: "gone", PrincipalType: PrincipalUser}
	kept := GrantRef{PrincipalID: "here", PrincipalType: PrincipalUser}
	g[PermEdit][dangling] = struct{}{}
	g[PermEdit][kept] = struct{}{}

	selected := map[GrantRef]struct{}{kept: {}}
	out := RecomputeGrants(selected, g)

	assert.Len(t, out[PermEdit], 1)
	_, ok := out[PermEdit][kept]
	assert.True(t, ok)
	// input untouched
	assert.Len(t, g[PermEdit], 2)
}

func TestRemoveGrantIdempotent(t *testing.T) {
	s := NewSelection()
	alice := user("u1", "Alice")
	s.ToggleSelection(alice)
	require.True(t, s.AddGrant(PermDelete, ref(alice)))

	s.RemoveGrant(PermDelete, "u1", PrincipalUser)
	s.RemoveGrant(PermDelete, "u1", PrincipalUser) // second removal is a no-op
	assert.False(t, s.HasGrant(PermDelete, ref(alice)))
}

func TestSavePayloadShape(t *testing.T) {
	s := NewSelection()
	s.SetAccessType(SpecificUsers)
	s.ToggleSelection(user("u2", "Bob"))
	s.ToggleSelection(user("u1", "Alice"))
	s.ToggleSelection(group("g1", "Ops"))

	require.True(t, s.AddGrant(PermEdit, GrantRef{PrincipalID: "u1", PrincipalType: PrincipalUser}))
	require.True(t, s.AddGrant(PermEdit, GrantRef{PrincipalID: "g1", PrincipalType: PrincipalGroup}))
	require.True(t, s.AddGrant(PermExecute, GrantRef{PrincipalID: "u2", PrincipalType: PrincipalUser}))

	p := s.Save()
	assert.Equal(t, SpecificUsers, p.AccessType)
	assert.Equal(t, []string{"u1", "u2"}, p.AllowedUserIDs)
	assert.Equal(t, []string{"g1"}, p.AllowedGroupIDs)
	assert.Equal(t, []string{"group:g1", "u1"}, p.CanEditIDs)
	assert.Empty(t, p.CanDeleteIDs)
	assert.Equal(t, []string{"u2"}, p.CanExecuteIDs)
}

func TestSaveClearsListsForNonSpecificAccess(t *testing.T) {
	s := NewSelection()
	s.SetAccessType(SpecificUsers)
	s.ToggleSelection(user("u1", "Alice"))
	require.True(t, s.AddGrant(PermEdit, GrantRef{PrincipalID: "u1", PrincipalType: PrincipalUser}))

	// Toggling away clears what Save emits but not the underlying data,
	// so toggling back restores the selection.
	s.SetAccessType(Authenticated)
	p := s.Save()
	assert.Empty(t, p.AllowedUserIDs)
	assert.Empty(t, p.CanEditIDs)

	s.SetAccessType(SpecificUsers)
	p = s.Save()
	assert.Equal(t, []string{"u1"}, p.AllowedUserIDs)
	assert.Equal(t, []string{"u1"}, p.CanEditIDs)
}

func TestLoadRoundTrip(t *testing.T) {
	dir := Directory{
		Users:  []Principal{user("u1", "Alice")},
		Groups: []Principal{group("g1", "Ops")},
	}
	s := Load(SpecificUsers,
		[]string{"u1"},
		[]string{"g1"},
		map[Permission][]string{
			PermEdit:    {"u1", "group:g1"},
			PermExecute: {"group:g1"},
			PermDelete:  {"u9"}, // not selected, must be dropped
		},
		dir.Resolve,
	)

	p := s.Save()
	assert.Equal(t, []string{"u1"}, p.AllowedUserIDs)
	assert.Equal(t, []string{"g1"}, p.AllowedGroupIDs)
	assert.Equal(t, []string{"group:g1", "u1"}, p.CanEditIDs)
	assert.Equal(t, []string{"group:g1"}, p.CanExecuteIDs)
	assert.Empty(t, p.CanDeleteIDs)

	users := s.SelectedUsers()
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].DisplayName)
}

func TestReset(t *testing.T) {
	s := NewSelection()
	s.SetAccessType(Public)
	s.ToggleSelection(user("u1", "Alice"))

	s.Reset()
	assert.Equal(t, OwnerOnly, s.AccessType())
	assert.Empty(t, s.SelectedUsers())
}
