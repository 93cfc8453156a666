package services

import (
	"encoding/json"
	"strings"
	"time"

	"stayserve/errors"

	"github.com/dgrijalva/jwt-go"
)

// GetUserIDFromToken extracts the provider id and role from a bearer token.
// An expired token maps to the session-expired error so the caller is forced
// to re-authenticate instead of retrying.
func GetUserIDFromToken(tokenString string) (uint, int, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid token", nil)
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Cannot decode token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "Cannot parse token", err)
	}

	if exp, ok := claimsMap["exp"].(float64); ok {
		if time.Now().After(time.Unix(int64(exp), 0)) {
			return 0, 0, errors.NewAppError(errors.ErrCodeTokenExpired, "Session expired", nil)
		}
	}

	userInfo, ok := claimsMap["userinfo"].(map[string]interface{})
	if !ok {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "No user info in token", nil)
	}

	userID, okID := userInfo["userid"].(float64)
	if !okID {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "No user id in token", nil)
	}

	role, okRole := userInfo["role"].(float64)
	if !okRole {
		return 0, 0, errors.NewAppError(errors.ErrCodeInvalidToken, "No role in token", nil)
	}

	return uint(userID), int(role), nil
}
