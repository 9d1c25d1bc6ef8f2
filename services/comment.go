package services

import "strings"

// CommentSeparator joins the plot description and the user's own comment into
// the single persisted comment column. Splitting on its first occurrence
// recovers both parts. If a user's free text contains the separator literally
// the split is lossy; accepted limitation.
const CommentSeparator = "\n\n---\n"

// JoinComment combines the two logical comment sub-fields into one string.
func JoinComment(description, userComment string) string {
	if description == "" {
		return userComment
	}
	if userComment == "" {
		return description
	}
	return description + CommentSeparator + userComment
}

// SplitComment recovers the description and user comment from a stored
// comment. Without the separator the whole string is the description.
func SplitComment(comment string) (description, userComment string) {
	before, after, found := strings.Cut(comment, CommentSeparator)
	if !found {
		return comment, ""
	}
	return before, after
}
