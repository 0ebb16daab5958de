package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrComplaintNotFound  = errors.New("models: complaint not found")
	ErrUpvoteNotFound     = errors.New("models: upvote not found")
	ErrAlreadyUpvoted     = errors.New("models: already upvoted this complaint")
	ErrNotUpvoteOwner     = errors.New("models: upvote belongs to another user")
	ErrInvalidInput       = errors.New("models: invalid input")
	ErrStorageUnavailable = errors.New("models: storage unavailable")
	ErrUserNotFound       = errors.New("models: user not found")
)
