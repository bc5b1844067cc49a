// Package steamid resolves Steam profile and trade URLs to a SteamID or
// vanity identifier.
package steamid

import (
	"errors"
	"strings"
)

var ErrInvalidProfileURL = errors.New("invalid profile URL")

// Extract pulls the identifier out of a steamcommunity profile URL, accepting
// both /profiles/<steamid64> and /id/<vanity> forms.
func Extract(profileURL string) (string, error) {
	for _, marker := range []string{"/profiles/", "/id/"} {
		if _, rest, ok := strings.Cut(profileURL, marker); ok {
			id, _, _ := strings.Cut(rest, "/")
			if id != "" {
				return id, nil
			}
		}
	}
	return "", ErrInvalidProfileURL
}
