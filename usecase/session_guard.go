package usecase

import (
	"strconv"
	"strings"
	"time"

	"lustroom-portal/domain/model"
)

// IsSessionValid reports whether the persisted credential can still be used at now.
// It is false when the token, obtained-at or expires-in value is missing or does
// not start with an integer, and when the token expires within model.SkewBuffer.
func IsSessionValid(values map[string]string, now time.Time) bool {
	cred, ok := CredentialFromValues(values)
	if !ok {
		return false
	}
	deadline := cred.ObtainedAt + cred.ExpiresIn - int64(model.SkewBuffer/time.Second)
	return deadline > now.Unix()
}

// CredentialFromValues parses the persisted credential keys.
func CredentialFromValues(values map[string]string) (model.Credential, bool) {
	token := strings.TrimSpace(values[model.KeyToken])
	if token == "" {
		return model.Credential{}, false
	}
	obtainedAt, ok := model.ParseLeadingInt(values[model.KeyObtainedAt])
	if !ok {
		return model.Credential{}, false
	}
	expiresIn, ok := model.ParseLeadingInt(values[model.KeyExpiresIn])
	if !ok {
		return model.Credential{}, false
	}
	return model.Credential{Token: token, ObtainedAt: obtainedAt, ExpiresIn: expiresIn}, true
}

// CredentialValues is the inverse of CredentialFromValues, plus the cached user attributes.
func CredentialValues(cred model.Credential, user *model.UserInfo) map[string]string {
	values := map[string]string{
		model.KeyToken:      cred.Token,
		model.KeyObtainedAt: strconv.FormatInt(cred.ObtainedAt, 10),
		model.KeyExpiresIn:  strconv.FormatInt(cred.ExpiresIn, 10),
	}
	if user != nil {
		if user.PlatformID != "" {
			values[model.KeyUserPlatformID] = user.PlatformID.String()
		}
		if user.Email != "" {
			values[model.KeyUserEmail] = user.Email
		}
		if user.Name != "" {
			values[model.KeyUserName] = user.Name
		}
	}
	return values
}
