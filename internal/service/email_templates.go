package service

import (
	"fmt"
	"html"
)

func verificationEmailTemplate(name, verifyURL, appName string) EmailMessage {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	text := fmt.Sprintf(`Hi %s,

Please verify your email address by opening this link:
%s

If you didn't create an account, you can ignore this email.

Best,
The %s Team`, name, verifyURL, appName)

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify Email</a></p>
<p>If you didn't create an account, you can ignore this email.</p>`,
		html.EscapeString(name), verifyURL)

	return EmailMessage{Subject: subject, Text: text, HTML: body}
}

func passwordResetEmailTemplate(name, resetURL, appName string) EmailMessage {
	subject := fmt.Sprintf("Password reset request for %s", appName)
	text := fmt.Sprintf(`Hi %s,

You requested a password reset. Open this link to choose a new password:
%s

This link expires in 1 hour and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, name, resetURL, appName)

	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You requested a password reset. Click the link below to choose a new password:</p>
<p><a href="%s">Reset Password</a></p>
<p>This link expires in 1 hour and can only be used once.</p>`,
		html.EscapeString(name), resetURL)

	return EmailMessage{Subject: subject, Text: text, HTML: body}
}
