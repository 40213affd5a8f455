package auth

// RequestCodeRequest asks for a one-time code; also used for resend.
type RequestCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=10,max=20"`
}

// VerifyCodeRequest exchanges a one-time code for a member session.
type VerifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=10,max=20"`
	Code  string `json:"code" validate:"required,len=6"`
}

// MemberInfo is the member view returned after authentication. The session
// token itself travels only in the cookie.
type MemberInfo struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	MembershipNumber string `json:"membership_number"`
}

// VerifyCodeResponse reports the authenticated member and their voted state.
type VerifyCodeResponse struct {
	Member   MemberInfo `json:"member"`
	HasVoted bool       `json:"has_voted"`
	VoteID   string     `json:"vote_id,omitempty"`
}

// AdminLoginRequest carries administrator password credentials.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLoginResponse flags accounts still on the seeded default password.
type AdminLoginResponse struct {
	Username           string `json:"username"`
	MustChangePassword bool   `json:"must_change_password"`
}

// ChangePasswordRequest completes the forced-change flow.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
