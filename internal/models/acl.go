package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

type SubjectKind string

const (
	SubjectUser   SubjectKind = "user"
	SubjectTeam   SubjectKind = "team"
	SubjectAnyone SubjectKind = "anyone"
)

type Capability string

const (
	CapabilityRead   Capability = "read"
	CapabilityUpdate Capability = "update"
)

// ACLEntry grants one capability to one subject. SubjectID is empty for
// the "anyone" subject.
type ACLEntry struct {
	Subject    SubjectKind `json:"subject"`
	SubjectID  string      `json:"subject_id,omitempty"`
	Capability Capability  `json:"capability"`
}

// ACL is the ordered grant set attached to a record at write time. It is
// stored as a JSONB column and replaced wholesale when recomposed.
type ACL []ACLEntry

// Scan implements the sql.Scanner interface
func (a *ACL) Scan(value interface{}) error {
	if value == nil {
		*a = ACL{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	var entries []ACLEntry
	if err := json.Unmarshal(bytes, &entries); err != nil {
		return err
	}

	*a = entries
	return nil
}

// Value implements the driver.Valuer interface
func (a ACL) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Grants reports whether the ACL contains the exact (subject, capability)
// pair. The "anyone" subject matches regardless of subject id.
func (a ACL) Grants(kind SubjectKind, subjectID string, capability Capability) bool {
	for _, e := range a {
		if e.Capability != capability {
			continue
		}
		if e.Subject == SubjectAnyone && kind == SubjectAnyone {
			return true
		}
		if e.Subject == kind && e.SubjectID == subjectID {
			return true
		}
	}
	return false
}

// CanRead reports whether the given user, optionally acting as a member of
// teamID, may read the record. Anyone-grants apply to every caller.
func (a ACL) CanRead(userID, teamID string) bool {
	if a.Grants(SubjectAnyone, "", CapabilityRead) {
		return true
	}
	if userID != "" && a.Grants(SubjectUser, userID, CapabilityRead) {
		return true
	}
	return teamID != "" && a.Grants(SubjectTeam, teamID, CapabilityRead)
}

// CanUpdate mirrors CanRead for the update capability.
func (a ACL) CanUpdate(userID, teamID string) bool {
	if userID != "" && a.Grants(SubjectUser, userID, CapabilityUpdate) {
		return true
	}
	return teamID != "" && a.Grants(SubjectTeam, teamID, CapabilityUpdate)
}
