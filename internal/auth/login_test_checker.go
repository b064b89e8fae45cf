package auth

import "context"

// LoginTestChecker is a map backed Checker for tests.
type LoginTestChecker struct {
	Token2UserID map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		Token2UserID: map[string]string{},
	}
}

func (tc *LoginTestChecker) UserIDFromToken(_ context.Context, token string) (string, error) {
	userID, ok := tc.Token2UserID[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	return userID, nil
}
