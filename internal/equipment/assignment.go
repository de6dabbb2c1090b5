package equipment

// IsNewAssignment decides whether an update to an equipment record
// represents a new asset assignment. The assignee fields are read from
// the submitted update, not the merged record, so unrelated edits never
// inherit a stored assignee.
//
// An update qualifies when it puts the asset in use with a named
// assignee and a contact email, and either the asset was not in use
// before or the assignee changed. Re-saving the same in-use assignee is
// not an assignment.
func IsNewAssignment(before *Equipment, update UpdateEquipmentDTO) bool {
	if update.Status != StatusInUse {
		return false
	}
	if update.AssigneeName == "" || update.EmployeeEmail == "" {
		return false
	}
	if before == nil {
		return true
	}
	return before.Status != StatusInUse || before.AssigneeName != update.AssigneeName
}
