package certificate

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const codePrefix = "CERT"

// VerificationCode builds CERT-<course>-<issued>-<user>: the first 8 hex
// digits of the course id, the issue instant in base36 milliseconds and the
// full user id in hex. A user holds one certificate per course, so two
// learners finishing the same course in the same millisecond still get
// distinct codes. Codes of one course sort by issue time while the base36
// part keeps its width.
func VerificationCode(courseID, userID uuid.UUID, issuedAt time.Time) string {
	course := strings.ReplaceAll(courseID.String(), "-", "")[:8]
	user := strings.ReplaceAll(userID.String(), "-", "")
	issued := strconv.FormatInt(issuedAt.UTC().UnixMilli(), 36)

	return strings.ToUpper(strings.Join([]string{codePrefix, course, issued, user}, "-"))
}

// NormalizeCode canonicalises user input before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IssuedAtFromCode recovers the issue instant encoded in a code.
func IssuedAtFromCode(code string) (time.Time, bool) {
	parts := strings.Split(NormalizeCode(code), "-")
	if len(parts) != 4 || parts[0] != codePrefix {
		return time.Time{}, false
	}

	ms, err := strconv.ParseInt(strings.ToLower(parts[2]), 36, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}
