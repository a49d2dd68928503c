package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Keys under which the credential and user attributes are persisted per session.
const (
	KeyToken          = "lustroom_jwt"
	KeyExpiresIn      = "lustroom_jwt_expires_in"
	KeyObtainedAt     = "lustroom_jwt_obtained_at"
	KeyUserPlatformID = "user_platform_id"
	KeyUserEmail      = "user_email"
	KeyUserName       = "user_name"
)

// SkewBuffer is subtracted from the credential lifetime when checking validity.
const SkewBuffer = 60 * time.Second

// Credential is the bearer token plus its issuance bookkeeping.
type Credential struct {
	Token      string
	ObtainedAt int64 // unix seconds
	ExpiresIn  int64 // seconds
}

// UserInfo holds the cached user attributes returned at login.
type UserInfo struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	PlatformID ID     `json:"platform_id"`
}

// Seconds is a duration in whole seconds that the backend may send as an integer,
// a float or a numeric string. Fractions are truncated.
type Seconds int64

func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		n, ok := ParseLeadingInt(str)
		if !ok {
			return fmt.Errorf("invalid seconds value %q", str)
		}
		*s = Seconds(n)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	f, err := num.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid seconds value %s", data)
	}
	*s = Seconds(math.Trunc(f))
	return nil
}

// ParseLeadingInt reads the optionally signed run of digits at the start of s,
// ignoring leading whitespace and anything after the digits. "3600.5" gives 3600.
func ParseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
