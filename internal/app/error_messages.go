// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-todo-keeper server handlers and the client stores.
//
// All Msg* constants are human-readable message strings that are written into
// the "message" field of the response envelope. Keeping them in one place
// ensures consistent wording between the server and the client fallbacks.
package app

// Success messages of the REST API.
const (
	MsgUserRegistered      = "User registered"
	MsgUserLoggedIn        = "User Logged in Successfully"
	MsgUserLoggedOut       = "User logged out"
	MsgAccessTokenRefreshed = "Access token refreshed"
	MsgCurrentUserFetched  = "Current user fetched successfully"
	MsgAvatarUploadURL     = "Avatar upload URL created"
	MsgAvatarUpdated       = "Avatar updated successfully"

	MsgTodoCreated   = "Todo created successfully"
	MsgTodosFetched  = "Todos fetched successfully"
	MsgTodoFetched   = "Todo fetched successfully"
	MsgTodoUpdated   = "Todo updated successfully"
	MsgTodoDeleted   = "Todo deleted Successfully"
	MsgTodoCompleted = "Todo marked as completed successfully"
)

// Error messages of the REST API.
const (
	// MsgValidationFailed accompanies the field-level errors of a rejected
	// request body.
	MsgValidationFailed = "Validation failed"

	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgBodyTooLarge is returned when the request body exceeds the limit.
	MsgBodyTooLarge = "Request body is too large"

	// MsgUserAlreadyExists is returned when the username or email is taken.
	MsgUserAlreadyExists = "User already exists"

	// MsgInvalidCredentials is returned for an unknown identity and for a
	// wrong password alike.
	MsgInvalidCredentials = "Invalid user credentials"

	MsgIdentityRequired = "username or email is required"

	// MsgUnauthorized is returned when no token accompanies the request.
	MsgUnauthorized = "Unauthorized request"

	// MsgInvalidAccessToken is returned for expired and invalid access
	// tokens alike.
	MsgInvalidAccessToken = "Invalid access token"

	// MsgInvalidRefreshToken is returned when a refresh token is expired,
	// invalid or no longer the current one.
	MsgInvalidRefreshToken = "Invalid refresh token"

	MsgTodoNotFound   = "Todo not found"
	MsgUserNotFound   = "User not found"
	MsgRouteNotFound  = "Route not found"
	MsgAvatarNotFound = "Avatar not found"
	MsgInvalidAvatar  = "Invalid avatar"

	// MsgAvatarsDisabled is returned when the server runs without object
	// storage.
	MsgAvatarsDisabled = "Avatar uploads are disabled"

	// MsgTooManyLoginAttempts is returned with 429 and a Retry-After header.
	MsgTooManyLoginAttempts = "Too many login attempts"

	MsgRequestTimeout = "Request timed out"

	// MsgInternalServerError hides the cause of any unexpected failure.
	MsgInternalServerError = "Internal server error"
)

// Client-side fallbacks used when the server answer carries no message.
const (
	MsgClientLoginFailed        = "Login failed"
	MsgClientRegistrationFailed = "Registration Failed"
	MsgClientLogoutFailed       = "Logout Failed"
	MsgClientRefreshFailed      = "Session refresh failed"
	MsgClientFetchTodosFailed   = "Failed to fetch todos"
	MsgClientCreateTodoFailed   = "Failed to create todo"
	MsgClientFetchFiltered      = "Failed to fetch filtered todos"
	MsgClientUpdateTodoFailed   = "Failed to update todo"
	MsgClientDeleteTodoFailed   = "Failed to delete todo"
	MsgClientCompleteTodoFailed = "Failed to complete todo"
	MsgClientNetworkError       = "Network error occurred"
)
