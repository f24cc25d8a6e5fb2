package og

import "strings"

// RemotePrefix joins the provider prefix and the configured directory,
// skipping empty segments and trimming surrounding slashes.
func RemotePrefix(providerPrefix, directory string) string {
	var parts []string
	for _, p := range []string{providerPrefix, directory} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}

// RemoteKey is the storage key of the preview image for id.
func RemoteKey(prefix, id string) string {
	if prefix == "" {
		return id + ".png"
	}
	return prefix + "/" + id + ".png"
}
