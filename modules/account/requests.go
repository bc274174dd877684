package account

type empty struct{}

type providerRequest struct {
	Provider string `path:"provider"`
}

type callbackRequest struct {
	Provider string `path:"provider"`
	Code     string `query:"code"`
	State    string `query:"state"`
}

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	SessionID int64 `json:"sessionId"`
}

type codeRequest struct {
	Code string `json:"code"`
}

func (r codeRequest) code() string { return r.Code }

type emailRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type newPasswordRequest struct {
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type setNewPasswordRequest struct {
	Code               string `json:"code"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (r setNewPasswordRequest) code() string { return r.Code }

type profileRequest struct {
	FullName       string `json:"fullName"`
	UserName       string `json:"userName"`
	AvatarProvider string `json:"avatarImageProvider"`
}
