package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 64
	// bcrypt ignores everything past 72 bytes, so longer passwords are refused outright.
	MaxPasswordBytes  = 72
	MaxVideoLinkBytes = 2048
)

// ValidateUsername checks a username for a new admin account.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(username) != username {
		return fmt.Errorf("username must not start or end with whitespace")
	}
	if strings.ContainsRune(username, 0) {
		return fmt.Errorf("username must not contain NUL characters")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	return nil
}

// ValidatePassword checks a password that is about to be hashed.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateVideoLink checks a new video link value. The empty string is allowed.
func ValidateVideoLink(link string) error {
	if len(link) > MaxVideoLinkBytes {
		return fmt.Errorf("video link must be at most %d bytes", MaxVideoLinkBytes)
	}
	// Postgres text columns reject NUL bytes and invalid UTF-8.
	if !utf8.ValidString(link) {
		return fmt.Errorf("video link must be valid UTF-8")
	}
	if strings.ContainsRune(link, 0) {
		return fmt.Errorf("video link must not contain NUL characters")
	}
	return nil
}
