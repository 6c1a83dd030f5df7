package errors

import "fmt"

var (
	// NotFound conditions. Lifecycle operations surface these to the caller;
	// persistence tasks log them and move on.
	ErrUserNotFound         = fmt.Errorf("user not found")
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrConversationClosed   = fmt.Errorf("conversation closed")

	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("invalid password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	ErrPoolClosed  = fmt.Errorf("persistence pool closed")
	ErrQueueFull   = fmt.Errorf("persistence queue full")
	ErrWorkerPanic = fmt.Errorf("worker panic")
)
