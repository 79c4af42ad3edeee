package dto

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	TOTPToken string `json:"totpToken,omitempty"`
}

type AuthResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token,omitempty"`
}

type TwoFactorRequiredResponse struct {
	Error       string `json:"error"`
	Requires2FA bool   `json:"requires2FA"`
}

type TwoFactorSetupResponse struct {
	Secret         string `json:"secret"`
	QRCode         string `json:"qrCode"`
	ManualEntryKey string `json:"manualEntryKey"`
	OTPAuthURL     string `json:"otpauthUrl"`
}

type TwoFactorVerifyRequest struct {
	Token string `json:"token" validate:"required,len=6,numeric"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}
