/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrValidationFailed:     {Code: ErrValidationFailed, Message: "Request failed validation: %s", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Matching and Skill Business Logic Errors
	ErrNoLearnSkills: {Code: ErrNoLearnSkills, Message: "Add at least one skill you want to learn to get matches.", Status: http.StatusBadRequest},
	ErrNoCandidates:  {Code: ErrNoCandidates, Message: "No other users found to match against.", Status: http.StatusNotFound},

	// 3xxx: Connection and Message Business Logic Errors
	ErrConnectionExists:      {Code: ErrConnectionExists, Message: "A connection between these users already exists.", Status: http.StatusConflict},
	ErrConnectionNotFound:    {Code: ErrConnectionNotFound, Message: "Connection not found.", Status: http.StatusNotFound},
	ErrConnectionForbidden:   {Code: ErrConnectionForbidden, Message: "You are not allowed to perform this action on this connection.", Status: http.StatusForbidden},
	ErrSelfConnection:        {Code: ErrSelfConnection, Message: "You cannot send a connection request to yourself.", Status: http.StatusBadRequest},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long.", Status: http.StatusBadRequest},
	ErrMessageContentEmpty:   {Code: ErrMessageContentEmpty, Message: "Message cannot be empty.", Status: http.StatusBadRequest},

	// 4xxx: User and Session Errors
	ErrUnauthorized:  {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionKicked: {Code: ErrSessionKicked, Message: "You were signed in on another device."},
	ErrUserNotFound:  {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
