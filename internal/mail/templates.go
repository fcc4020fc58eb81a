package mail

import "fmt"

const (
	// SubjectSignup is used for signup and password reset codes.
	SubjectSignup = "Verify your email address"
	// SubjectEmailChange is used when a code gates an email change request.
	SubjectEmailChange = "Verify your email change request"
)

const codeBlock = `<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 24px; letter-spacing: 4px; margin: 20px 0;">
  <strong>%s</strong>
</div>`

// VerificationBody renders the signup/reset verification email.
func VerificationBody(name, code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Welcome to Stacked Time!</h2>
  <p>Hi %s,</p>
  <p>Your verification code is:</p>
  `+codeBlock+`
  <p>This code will expire in 10 minutes.</p>
  <p>If you didn't request this code, you can safely ignore this email.</p>
</div>`, name, code)
}

// EmailChangeBody renders the email-change verification email. The code is
// always sent to the current mailbox; newEmail is the address being moved to.
func EmailChangeBody(name, newEmail, code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Email Change Request</h2>
  <p>Hi %s,</p>
  <p>We received a request to change your email address to: %s</p>
  <p>Your verification code is:</p>
  `+codeBlock+`
  <p>This code will expire in 10 minutes.</p>
  <p>If you didn't request this change, you can safely ignore this email.</p>
</div>`, name, newEmail, code)
}

// FeedbackBody renders the operator-facing feedback notification.
func FeedbackBody(reaction, message string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Feedback Received</h2>
  <p><strong>Type:</strong> %s</p>
  <div style="background-color: #f4f4f4; padding: 20px; margin: 20px 0; border-radius: 8px;">
    <p style="margin: 0;"><strong>Message:</strong></p>
    <p style="margin: 10px 0 0; white-space: pre-wrap;">%s</p>
  </div>
</div>`, reaction, message)
}
