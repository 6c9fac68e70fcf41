package services

import "claims-api/internal/models"

// RecordKind tags the closed set of record families this service composes
// permissions for. Each kind maps to a fixed sequence of rule fragments; the
// output order is stable so recomposing with identical inputs yields an
// identical ACL.
type RecordKind string

const (
	RecordKindClaim        RecordKind = "claim"
	RecordKindClaimRelated RecordKind = "claim_related"
	RecordKindProfile      RecordKind = "profile"
	RecordKindDirectory    RecordKind = "directory"
)

// ComposePermissions derives the ACL attached to a record at write time.
// A present-but-empty teamID is treated as absent. isPublic is only honored
// for RecordKindClaim: dependent records are never independently public,
// their anonymous visibility is mediated by the parent claim's flag.
func ComposePermissions(kind RecordKind, userID, teamID string, isPublic bool) models.ACL {
	acl := models.ACL{}

	switch kind {
	case RecordKindClaimRelated:
		acl = appendOwnerRead(acl, userID)
		acl = appendTeamReadWrite(acl, teamID)
	case RecordKindProfile:
		acl = appendOwnerRead(acl, userID)
		acl = append(acl, models.ACLEntry{
			Subject:    models.SubjectUser,
			SubjectID:  userID,
			Capability: models.CapabilityUpdate,
		})
	case RecordKindDirectory:
		acl = appendPublicRead(acl)
	default: // RecordKindClaim
		acl = appendOwnerRead(acl, userID)
		acl = appendTeamReadWrite(acl, teamID)
		if isPublic {
			acl = appendPublicRead(acl)
		}
	}

	return acl
}

// ComposeClaimPermissions grants read to the owner, read+update to the
// routed adjuster team, and read to anyone when the claim is public. No
// update grant is ever given to "anyone".
func ComposeClaimPermissions(userID, teamID string, isPublic bool) models.ACL {
	return ComposePermissions(RecordKindClaim, userID, teamID, isPublic)
}

// ComposeClaimRelatedPermissions covers damage details, vehicle
// verifications and assessments: same as a claim but never public.
func ComposeClaimRelatedPermissions(userID, teamID string) models.ACL {
	return ComposePermissions(RecordKindClaimRelated, userID, teamID, false)
}

// ComposeUserPermissions keeps profile data private: owner read+update only.
func ComposeUserPermissions(userID string) models.ACL {
	return ComposePermissions(RecordKindProfile, userID, "", false)
}

// ComposeDirectoryPermissions marks a reference record world-readable;
// directory writes happen through a privileged path outside this API.
func ComposeDirectoryPermissions() models.ACL {
	return ComposePermissions(RecordKindDirectory, "", "", false)
}

func appendOwnerRead(acl models.ACL, userID string) models.ACL {
	if userID == "" {
		return acl
	}
	return append(acl, models.ACLEntry{
		Subject:    models.SubjectUser,
		SubjectID:  userID,
		Capability: models.CapabilityRead,
	})
}

func appendTeamReadWrite(acl models.ACL, teamID string) models.ACL {
	if teamID == "" {
		return acl
	}
	return append(acl,
		models.ACLEntry{Subject: models.SubjectTeam, SubjectID: teamID, Capability: models.CapabilityRead},
		models.ACLEntry{Subject: models.SubjectTeam, SubjectID: teamID, Capability: models.CapabilityUpdate},
	)
}

func appendPublicRead(acl models.ACL) models.ACL {
	return append(acl, models.ACLEntry{
		Subject:    models.SubjectAnyone,
		Capability: models.CapabilityRead,
	})
}
