package services

import (
	"testing"

	"claims-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID = "7b0c3d6e-1111-4222-8333-944445555666"
	testTeamID = "team-acme-adjusters"
)

func TestComposeClaimPermissionsPrivate(t *testing.T) {
	acl := ComposeClaimPermissions(testUserID, testTeamID, false)

	require.Equal(t, models.ACL{
		{Subject: models.SubjectUser, SubjectID: testUserID, Capability: models.CapabilityRead},
		{Subject: models.SubjectTeam, SubjectID: testTeamID, Capability: models.CapabilityRead},
		{Subject: models.SubjectTeam, SubjectID: testTeamID, Capability: models.CapabilityUpdate},
	}, acl)

	for _, entry := range acl {
		assert.NotEqual(t, models.SubjectAnyone, entry.Subject)
	}
}

func TestComposeClaimPermissionsPublic(t *testing.T) {
	acl := ComposeClaimPermissions(testUserID, testTeamID, true)

	anyoneReads := 0
	for _, entry := range acl {
		if entry.Subject != models.SubjectAnyone {
			continue
		}
		require.Equal(t, models.CapabilityRead, entry.Capability, "anyone must never get update")
		anyoneReads++
	}
	assert.Equal(t, 1, anyoneReads)
}

func TestComposeClaimPermissionsEmptyTeamTreatedAsAbsent(t *testing.T) {
	acl := ComposeClaimPermissions(testUserID, "", false)

	require.Len(t, acl, 1)
	assert.Equal(t, models.SubjectUser, acl[0].Subject)
	assert.Equal(t, models.CapabilityRead, acl[0].Capability)
}

func TestComposeClaimRelatedPermissionsNeverPublic(t *testing.T) {
	// The kind dispatcher must ignore the public flag for dependent records.
	acl := ComposePermissions(RecordKindClaimRelated, testUserID, testTeamID, true)

	for _, entry := range acl {
		assert.NotEqual(t, models.SubjectAnyone, entry.Subject)
	}
	assert.Equal(t, ComposeClaimRelatedPermissions(testUserID, testTeamID), acl)
}

func TestComposeUserPermissionsOwnerOnly(t *testing.T) {
	acl := ComposeUserPermissions(testUserID)

	require.Equal(t, models.ACL{
		{Subject: models.SubjectUser, SubjectID: testUserID, Capability: models.CapabilityRead},
		{Subject: models.SubjectUser, SubjectID: testUserID, Capability: models.CapabilityUpdate},
	}, acl)
}

func TestComposeDirectoryPermissionsReadOnlyForAnyone(t *testing.T) {
	acl := ComposeDirectoryPermissions()

	require.Equal(t, models.ACL{
		{Subject: models.SubjectAnyone, Capability: models.CapabilityRead},
	}, acl)
}

func TestComposePermissionsIdempotent(t *testing.T) {
	first := ComposeClaimPermissions(testUserID, testTeamID, true)
	second := ComposeClaimPermissions(testUserID, testTeamID, true)

	assert.Equal(t, first, second, "identical inputs must yield identical, order-stable ACLs")
}

func TestACLChecks(t *testing.T) {
	acl := ComposeClaimPermissions(testUserID, testTeamID, false)

	assert.True(t, acl.CanRead(testUserID, ""))
	assert.True(t, acl.CanRead("someone-else", testTeamID))
	assert.False(t, acl.CanRead("someone-else", "other-team"))

	assert.True(t, acl.CanUpdate("someone-else", testTeamID))
	assert.False(t, acl.CanUpdate(testUserID, ""), "owner holds read, not update, on claims")

	public := ComposeClaimPermissions(testUserID, "", true)
	assert.True(t, public.CanRead("", ""))
	assert.False(t, public.CanUpdate("stranger", "stranger-team"))
}
