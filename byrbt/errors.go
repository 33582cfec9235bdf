package byrbt

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrLoginFailed indicates the tracker rejected the login attempt
	ErrLoginFailed = errors.New("login failed")
	// ErrNotAuthenticated indicates no valid session is available
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoCookies indicates no saved session exists on disk
	ErrNoCookies = errors.New("no saved cookies")
)

// ParseError indicates a tracker page did not have the expected
// structure. It fails the current command only; the session stays up.
type ParseError struct {
	Page string
	What string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s page: %s", e.Page, e.What)
}

// DownloadError indicates a torrent file download failed
type DownloadError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface
func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed with status %d for %s", e.StatusCode, e.URL)
}
