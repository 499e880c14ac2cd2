package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestClient(out *captured, err error) *Client {
	c := NewClient("smtp.example.com", "587", "user", "pass", "academy@example.com", false)
	c.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*out = captured{addr: addr, from: from, to: to, msg: string(msg)}
		return err
	}
	return c
}

func TestSendCertificateIssued(t *testing.T) {
	var got captured
	c := newTestClient(&got, nil)

	err := c.SendCertificateIssued("learner@example.com", "Go <Basics>", "CERT-ABC", "https://lms.example.com/verify")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, []string{"learner@example.com"}, got.to)
	assert.Contains(t, got.msg, "Subject: Your certificate for Go <Basics>")
	assert.Contains(t, got.msg, "Go &lt;Basics&gt;")
	assert.Contains(t, got.msg, "https://lms.example.com/verify/CERT-ABC")
}

func TestSendBadgeEarned(t *testing.T) {
	var got captured
	c := newTestClient(&got, nil)

	require.NoError(t, c.SendBadgeEarned("learner@example.com", "First Step", 10))
	assert.Contains(t, got.msg, "You earned the First Step badge (10 points).")
}

func TestSendEmailFailures(t *testing.T) {
	var got captured
	failing := newTestClient(&got, errors.New("connection refused"))
	err := failing.SendBadgeEarned("learner@example.com", "First Step", 10)
	assert.ErrorContains(t, err, "failed to send email")

	err = failing.SendEmail(EmailOptions{To: " "})
	assert.ErrorContains(t, err, "recipient is empty")

	unconfigured := NewClient("", "", "", "", "", false)
	assert.False(t, unconfigured.Configured())
	assert.Error(t, unconfigured.SendBadgeEarned("learner@example.com", "First Step", 10))
}
