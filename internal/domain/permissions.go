package domain

// CanEditTask decides task-edit eligibility from the user's group and
// their relationship to the objective, key result, and task. One
// decision table instead of inline boolean checks scattered through
// handlers.
//
//	admin          -> always
//	product_owner  -> any task within their company
//	scrum_master   -> tasks of objectives they coordinate, or where
//	                  they are responsible for the objective or the KR
//	team_member    -> only tasks they are responsible for
//	inventory_user -> never
func CanEditTask(user *UserProfile, task Task, obj *Objective, kr *KeyResult) bool {
	if user == nil || obj == nil {
		return false
	}

	if user.Group == UserGroupAdmin {
		return true
	}

	// Company boundary applies to every non-admin group.
	if user.Company != obj.Company {
		return false
	}

	switch user.Group {
	case UserGroupProductOwner:
		return true
	case UserGroupScrumMaster:
		if obj.CoordinatorScrumMasterID == user.ID || obj.ResponsibleID == user.ID {
			return true
		}
		return kr != nil && kr.ResponsibleID == user.ID
	case UserGroupTeamMember:
		return task.ResponsibleID == user.ID
	default:
		return false
	}
}
