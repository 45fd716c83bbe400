// Package auth implements the stateless token layer: HS256 session
// tokens carrying the user id, and short-lived password-reset envelopes
// carrying the issued one-time code.
package auth

import (
	"time"

	"github.com/dbelyakov/noteleaf/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims: registered claims plus the
// authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// ResetClaims bind a one-time password-reset code to an email address.
type ResetClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

func GenerateResetToken(email, otp string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: email,
		OTP:   otp,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyResetToken checks the stored reset envelope against the email
// and code the caller presented. Expired or tampered tokens and
// mismatched codes all come back as ErrorInvalidOrExpiredCode.
func VerifyResetToken(tokenString, email, otp string, secretKey []byte) error {
	claims := &ResetClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return common.ErrorInvalidOrExpiredCode
	}

	if claims.Email != email || claims.OTP != otp {
		return common.ErrorInvalidOrExpiredCode
	}

	return nil
}
