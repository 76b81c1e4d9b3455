// utils/email.go
package utils

import (
	"fmt"
	"time"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	client := postmark.NewClient(apiToken, "")
	return &EmailService{
		client: client,
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationCode emails a numeric verification code, used both for
// registration and password reset.
func (es *EmailService) SendVerificationCode(toEmail, code string) error {
	subject := "Verify your email address"
	htmlContent := fmt.Sprintf(`
       <div style="font-family: Arial, sans-serif; background-color:#f4f4f4; padding:30px;">
        <div style="max-width:600px; margin:auto; background:#ffffff; border-radius:8px; padding:20px;">
          <div style="text-align:center; margin-bottom:20px;">
            <h1 style="color:#4CAF50; margin:0;">HL</h1>
            <p style="color:#555; font-size:16px; margin-top:5px;">Secure Email Verification</p>
          </div>
          <p style="font-size:16px; color:#333;">Hello,</p>
          <p style="font-size:15px; color:#555;">
            We received a request to verify your email address. Please use the following
            <strong style="color:#4CAF50;">verification code</strong>:
          </p>
          <div style="text-align:center; margin:30px 0;">
            <span style="display:inline-block; background:#4CAF50; color:#fff; font-size:24px; font-weight:bold; letter-spacing:3px; padding:15px 25px; border-radius:8px;">%s</span>
          </div>
          <p style="font-size:14px; color:#777;">If you didn't request this, you can safely ignore this email.</p>
          <p style="font-size:13px; color:#999; text-align:center;">&copy; %d HL. All rights reserved.</p>
        </div>
      </div>`, code, time.Now().Year())

	return es.SendEmail(toEmail, subject, htmlContent)
}
