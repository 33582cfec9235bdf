package byrbt

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// SaveCookies persists the current session cookies. The file is written
// under a temporary name and renamed into place, so a crash mid-write
// cannot leave a truncated cookie file behind.
func (c *Client) SaveCookies() error {
	cookies := c.httpClient.Jar.Cookies(c.baseURL)

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.cookiePath), ".cookies-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cookie file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cookies: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cookies: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.cookiePath); err != nil {
		return fmt.Errorf("failed to replace cookie file: %w", err)
	}

	c.logger.Debug().Str("path", c.cookiePath).Int("cookies", len(cookies)).Msg("Saved session cookies")
	return nil
}

// LoadCookies restores session cookies from disk into the client jar.
// A missing or empty cookie file is ErrNoCookies.
func (c *Client) LoadCookies() error {
	data, err := os.ReadFile(c.cookiePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoCookies
		}
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var cookies []*http.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return fmt.Errorf("failed to decode cookie file: %w", err)
	}
	if len(cookies) == 0 {
		return ErrNoCookies
	}

	c.httpClient.Jar.SetCookies(c.baseURL, cookies)
	c.logger.Debug().Str("path", c.cookiePath).Int("cookies", len(cookies)).Msg("Loaded session cookies")
	return nil
}
