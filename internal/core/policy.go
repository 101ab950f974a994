package core

import "agora/pkg/models"

// CanUpdateFeedback decides whether a user may update a feedback item:
// admins always, otherwise only the author. Unattributed feedback
// (AuthorID nil) can only be updated by an admin.
//
// Update is the only operation guarded by this policy. Archive, reopen,
// delete, vote, and comment intentionally carry no check, mirroring the
// asymmetry in the source system; see DESIGN.md.
func CanUpdateFeedback(feedback *models.Feedback, user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Role.IsAdmin() {
		return true
	}
	return feedback.AuthorID != nil && *feedback.AuthorID == user.ID
}
