package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/dimitrije/lockbox-api/internal/models"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod     = 30
	totpSkew       = 2
	totpSecretSize = 20
	qrCodeSize     = 200
)

type TwoFactorSetup struct {
	Secret         string
	QRCode         string
	ManualEntryKey string
	OTPAuthURL     string
}

// TwoFactorService drives the Disabled -> Provisioning -> Enabled lifecycle
// of a user's TOTP secret.
type TwoFactorService struct {
	users  *UserService
	issuer string
	now    func() time.Time
}

func NewTwoFactorService(users *UserService, issuer string) *TwoFactorService {
	return &TwoFactorService{
		users:  users,
		issuer: issuer,
		now:    time.Now,
	}
}

func (s *TwoFactorService) Setup(ctx context.Context, user *models.User) (*TwoFactorSetup, error) {
	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
		Period:      totpPeriod,
		SecretSize:  totpSecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	qr, err := qrDataURL(key)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetTwoFactorSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	return &TwoFactorSetup{
		Secret:         key.Secret(),
		QRCode:         qr,
		ManualEntryKey: key.Secret(),
		OTPAuthURL:     key.URL(),
	}, nil
}

// Verify confirms a provisioned secret with a code and enables 2FA.
func (s *TwoFactorService) Verify(ctx context.Context, user *models.User, code string) error {
	if !user.HasTwoFactorSecret() {
		return ErrTwoFactorNotSetUp
	}
	if !s.Validate(*user.TwoFactorSecret, code) {
		return ErrInvalidTwoFactorCode
	}
	return s.users.EnableTwoFactor(ctx, user.ID, *user.TwoFactorSecret)
}

func (s *TwoFactorService) Disable(ctx context.Context, user *models.User) error {
	return s.users.DisableTwoFactor(ctx, user.ID)
}

// Validate accepts codes up to two 30 second steps either side of now.
func (s *TwoFactorService) Validate(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, s.now().UTC(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrCodeSize, qrCodeSize)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
