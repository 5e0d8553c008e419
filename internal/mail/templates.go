package mail

import "fmt"

// Pre-filled messages for common scenarios. Each leaves To to be set by the
// caller unless noted.

// Welcome greets a newly registered user.
func Welcome(userName, userEmail, frontendURL string) *Message {
	return &Message{
		To:       userEmail,
		Subject:  "Welcome to SendMeNow!",
		Greeting: fmt.Sprintf("Hello %s!", userName),
		Body:     "Thank you for registering with SendMeNow. We are excited to have you on board!",
		Details: fmt.Sprintf(`<p><strong>Account Details:</strong></p>
<p>Username: <span class="highlight">%s</span></p>
<p>Email: <span class="highlight">%s</span></p>`, userName, userEmail),
		AdditionalInfo: "If you have any questions, feel free to reach out to our support team.",
		ButtonText:     "Get Started",
		ButtonURL:      frontendURL,
	}
}

// PasswordReset carries the reset link for a forgot-password request.
func PasswordReset(userName, resetLink string) *Message {
	return &Message{
		Subject:        "Password Reset Request - SendMeNow",
		Greeting:       fmt.Sprintf("Hello %s!", userName),
		Body:           "You have requested to reset your password. Click the button below to create a new password.",
		Details:        "<p>This link will expire in 1 hour for security reasons.</p>",
		ButtonText:     "Reset Password",
		ButtonURL:      resetLink,
		AdditionalInfo: "If you did not request this password reset, please ignore this email or contact support if you have concerns.",
	}
}

// AccountVerification asks the user to confirm their email address.
func AccountVerification(userName, verificationLink string) *Message {
	return &Message{
		Subject:        "Verify Your SendMeNow Account",
		Greeting:       fmt.Sprintf("Hello %s!", userName),
		Body:           "Please verify your email address to complete your account setup.",
		ButtonText:     "Verify Email",
		ButtonURL:      verificationLink,
		AdditionalInfo: "This verification link will expire in 24 hours.",
	}
}

// Notification is the generic template.
func Notification(userName, body, details string) *Message {
	return &Message{
		Subject:        "Notification from SendMeNow",
		Greeting:       fmt.Sprintf("Hello %s!", userName),
		Body:           body,
		Details:        details,
		AdditionalInfo: "Thank you for using SendMeNow!",
	}
}
