/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrValidationFailed indicates that the request body failed struct-level validation rules.
	ErrValidationFailed = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Matching and Skill Business Logic Errors
const (
	// ErrNoLearnSkills indicates the requesting user has no want-to-learn skills to match against.
	ErrNoLearnSkills = 2101

	// ErrNoCandidates indicates there are no other users in the system to match against.
	ErrNoCandidates = 2102
)

// 3xxx: Connection and Message Business Logic Errors
const (
	// ErrConnectionExists indicates a pending or accepted connection already exists between the two users.
	ErrConnectionExists = 3101

	// ErrConnectionNotFound indicates the referenced connection record does not exist.
	ErrConnectionNotFound = 3102

	// ErrConnectionForbidden indicates the acting user is not a party allowed to perform this connection action.
	ErrConnectionForbidden = 3103

	// ErrSelfConnection indicates a user attempted to send a connection request to themselves.
	ErrSelfConnection = 3104

	// ErrMessageContentTooLong indicates that the message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 3201

	// ErrMessageContentEmpty indicates that the message text was empty or whitespace only.
	ErrMessageContentEmpty = 3202
)

// 4xxx: User and Session Errors
const (
	// ErrUnauthorized indicates the request carries no valid identity token.
	ErrUnauthorized = 4001

	// ErrSessionKicked indicates that the current realtime session has been replaced by a newer one.
	ErrSessionKicked = 4002

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = 4101
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
