package services

// Result is the outcome of an account operation that reached a decision.
// Success=false is a business rejection, not a fault. Faults travel as
// the separate error return.
type Result[T any] struct {
	Success bool
	Message string
	Data    T
}

// Succeed builds an accepted result.
func Succeed[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Reject builds a rejected result carrying the zero value of T.
func Reject[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// Messages returned to callers.
const (
	MsgUserAlreadyExists      = "User already exists."
	MsgRegistrationSuccessful = "Registration successful"
	MsgUserNotFound           = "User not found."
	MsgWrongPassword          = "Wrong password."
	MsgUserNotVerified        = "User not verified."
	MsgVerificationFailed     = "Verification failed"
	MsgVerificationSuccessful = "Verification successful"
	MsgResetTokenIssued       = "Password reset token issued."
	MsgResetRejected          = "User not found or Reset token expired."
	MsgPasswordReset          = "Password successfully reset."
)
