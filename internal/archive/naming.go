package archive

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02_15-04-05"

// Timestamp converts a Slack message ts token ("1700000000.000200") into a
// fixed-width sortable UTC string like "2023-11-14_22-13-20".
func Timestamp(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("empty ts token")
	}
	secPart, fracPart, _ := strings.Cut(token, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parse ts token %q: %w", token, err)
	}
	// The fractional part only disambiguates ordering; sub-second precision
	// is not carried into artifact names.
	_ = fracPart
	return time.Unix(sec, 0).UTC().Format(timestampLayout), nil
}

// ArtifactName computes the archived filename for one attachment.
//
// A message's sole attachment is named "{ts}_FROM_{user}{ext}"; when a
// message carries several, each gets its 1-based index:
// "{ts}_{index}_FROM_{user}{ext}". ext is preserved verbatim including the
// leading dot, empty when the original had none.
func ArtifactName(ts, user, ext string, index, total int) string {
	if total > 1 {
		return fmt.Sprintf("%s_%d_FROM_%s%s", ts, index, user, ext)
	}
	return fmt.Sprintf("%s_FROM_%s%s", ts, user, ext)
}

// TextArtifactName names the artifact holding a message's text or caption.
func TextArtifactName(ts, user string) string {
	return fmt.Sprintf("%s_FROM_%s.txt", ts, user)
}

// Extension returns the file extension of name including the leading dot,
// or "" when name has none.
func Extension(name string) string {
	return path.Ext(strings.TrimSpace(name))
}
