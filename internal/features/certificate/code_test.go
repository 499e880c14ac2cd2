package certificate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationCode(t *testing.T) {
	course := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")
	user := uuid.MustParse("ab12cd34-0000-4000-8000-000000000002")
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	code := VerificationCode(course, user, issued)
	assert.Regexp(t, `^CERT-3F2A9C1E-[0-9A-Z]+-AB12CD34000040008000000000000002$`, code)
	assert.Equal(t, code, VerificationCode(course, user, issued), "deterministic")

	back, ok := IssuedAtFromCode(code)
	require.True(t, ok)
	assert.True(t, issued.Equal(back))
}

func TestVerificationCodeDistinguishesUsersSharingAPrefix(t *testing.T) {
	course := uuid.New()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := uuid.MustParse("abcd0000-0000-0000-0000-000000000001")
	second := uuid.MustParse("abcd0000-0000-0000-0000-000000000002")

	a := VerificationCode(course, first, issued)
	b := VerificationCode(course, second, issued)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 64)
}

func TestVerificationCodeSortsByIssueTime(t *testing.T) {
	course := uuid.New()
	user := uuid.New()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := VerificationCode(course, user, first)
	b := VerificationCode(course, user, first.Add(90*time.Minute))
	assert.Less(t, a, b)
}

func TestIssuedAtFromCodeRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "CERT", "NOPE-1-2-3", "CERT-abc-!!-12"} {
		_, ok := IssuedAtFromCode(code)
		assert.False(t, ok, code)
	}
	assert.Equal(t, "CERT-AB", NormalizeCode("  cert-ab "))
}
