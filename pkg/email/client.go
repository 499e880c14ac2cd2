package email

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/smtp"
	"strings"
	"time"
)

// Client handles email sending operations.
type Client struct {
	host     string
	port     string
	username string
	password string
	from     string
	secure   bool
	send     sendFunc
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// NewClient creates a new email client.
func NewClient(host, port, username, password, from string, secure bool) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		secure:   secure,
		send:     smtp.SendMail,
	}
}

// EmailOptions represents the options for sending an email.
type EmailOptions struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Configured reports whether an SMTP host was provided.
func (c *Client) Configured() bool {
	return c != nil && c.host != ""
}

// SendEmail sends an email with HTML content.
func (c *Client) SendEmail(opts EmailOptions) error {
	if !c.Configured() {
		return errors.New("email client not configured")
	}
	if strings.TrimSpace(opts.To) == "" {
		return errors.New("email recipient is empty")
	}

	// Wrap HTML in template
	wrappedHTML := c.wrapHTMLTemplate(opts.HTML)

	// Build message
	message := c.buildMessage(opts.To, opts.Subject, wrappedHTML, opts.Text)

	// Connect and send
	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	addr := fmt.Sprintf("%s:%s", c.host, c.port)

	err := c.send(addr, auth, c.from, []string{opts.To}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// wrapHTMLTemplate wraps the HTML content in a nice template.
func (c *Client) wrapHTMLTemplate(content string) string {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background: #f9f9f9;">
    <div style="padding: 32px;">
        <div style="max-width: 600px; margin: auto; background: #fff; border-radius: 8px; box-shadow: 0 2px 8px #eee; padding: 32px;">
            <div style="text-align: center; margin-bottom: 24px;">
                <h2 style="color: #2a7ae2; margin: 0;">Elites Academy Achievements</h2>
            </div>
            <div style="font-size: 16px; color: #333;">
                {{.Content}}
            </div>
            <div style="margin-top: 32px; text-align: center; color: #aaa; font-size: 12px;">
                &copy; {{.Year}} Elites Academy. All rights reserved.
            </div>
        </div>
    </div>
</body>
</html>
`

	t := template.Must(template.New("email").Parse(tmpl))
	var buf bytes.Buffer
	data := map[string]interface{}{
		"Content": template.HTML(content),
		"Year":    time.Now().Year(),
	}

	if err := t.Execute(&buf, data); err != nil {
		// Fallback to plain content if template fails
		return content
	}

	return buf.String()
}

// buildMessage constructs the email message with headers.
func (c *Client) buildMessage(to, subject, html, text string) string {
	from := c.from
	if from == "" {
		from = "noreply@example.com"
	}

	msg := fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: multipart/alternative; boundary=\"boundary42\"\r\n"
	msg += "\r\n"

	// Plain text part
	if text != "" {
		msg += "--boundary42\r\n"
		msg += "Content-Type: text/plain; charset=\"UTF-8\"\r\n"
		msg += "\r\n"
		msg += text + "\r\n"
	}

	// HTML part
	msg += "--boundary42\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += "\r\n"
	msg += html + "\r\n"
	msg += "--boundary42--\r\n"

	return msg
}

// SendCertificateIssued tells a learner their course certificate is ready.
func (c *Client) SendCertificateIssued(to, courseName, verificationCode, verifyURL string) error {
	course := html.EscapeString(courseName)
	code := html.EscapeString(verificationCode)

	body := fmt.Sprintf(`
		<p>Congratulations!</p>
		<p>You completed <strong>%s</strong> and your certificate has been issued.</p>
		<p style="text-align: center; margin: 24px 0; font-size: 18px; letter-spacing: 1px;">
			<code>%s</code>
		</p>
	`, course, code)
	text := fmt.Sprintf("You completed %s. Certificate code: %s", courseName, verificationCode)

	if verifyURL != "" {
		link := html.EscapeString(verifyURL + "/" + verificationCode)
		body += fmt.Sprintf(`
		<p style="text-align: center;">
			<a href="%s" style="background: #2a7ae2; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px; display: inline-block;">
				Verify Certificate
			</a>
		</p>`, link)
		text += "\nVerify: " + verifyURL + "/" + verificationCode
	}

	return c.SendEmail(EmailOptions{
		To:      to,
		Subject: fmt.Sprintf("Your certificate for %s", courseName),
		HTML:    body,
		Text:    text,
	})
}

// SendBadgeEarned tells a learner they earned a badge.
func (c *Client) SendBadgeEarned(to, badgeName string, points int) error {
	body := fmt.Sprintf(`
		<h3 style="color: #2a7ae2;">New badge: %s</h3>
		<p>You earned %d points. Keep learning!</p>
	`, html.EscapeString(badgeName), points)

	return c.SendEmail(EmailOptions{
		To:      to,
		Subject: fmt.Sprintf("You earned the %s badge", badgeName),
		HTML:    body,
		Text:    fmt.Sprintf("You earned the %s badge (%d points).", badgeName, points),
	})
}
