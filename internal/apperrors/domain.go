package apperrors

var (
	// ErrNotFound is the code-only sentinel; repositories wrap it for missing rows.
	ErrNotFound = &AppError{Code: CodeNotFound}

	ErrUserNotFound          = NotFound("user not found")
	ErrMobileTaken           = AlreadyExists("mobile number is already registered")
	ErrInvalidCredentials    = Unauthorized("invalid mobile number or password")
	ErrInvalidToken          = Unauthorized("invalid token")
	ErrWeakPassword          = InvalidArg("password must be at least 6 characters")
	ErrInvalidMobile         = InvalidArg("mobile number must have at least 10 digits")
	ErrIdentityMismatch      = NotFound("mobile number or date of birth is incorrect")
	ErrRequestNotFound       = NotFound("request not found")
	ErrRequestNotPending     = FailedPrecondition("request is no longer pending")
	ErrRequestToSelf         = InvalidArg("cannot send a request to yourself")
	ErrRequestExists         = AlreadyExists("a pending request already exists")
	ErrProfileNotFound       = NotFound("matrimony profile not found")
	ErrRoomNotFound          = NotFound("chat room not found")
	ErrNotRoomMember         = Forbidden("user is not a member of this room")
	ErrNotConnected          = FailedPrecondition("users are not connected")
	ErrAlreadyConnected      = FailedPrecondition("users are already connected")
	ErrEmptyMessage          = InvalidArg("message content is required")
	ErrHouseholdNotFound     = NotFound("household not found")
	ErrMemberNotFound        = NotFound("family member not found")
	ErrBusinessNotFound      = NotFound("business not found")
	ErrEventNotFound         = NotFound("trust event not found")
	ErrNotOwner              = Forbidden("only the owner can change this record")
	ErrAdminOnly             = Forbidden("admin access required")
	ErrUnknownBucket         = InvalidArg("unknown storage bucket")
	ErrInvalidAmount         = InvalidArg("amount must be positive")
	ErrPaymentNotFound       = NotFound("payment not found")
	ErrInvalidSignature      = Unauthorized("signature verification failed")
	ErrPaymentGatewayFailure = FailedPrecondition("payment initiation failed")
)
