package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// EmailService sends transactional mail via SMTP. Delivery is fire and
// forget: callers never roll back state because a send failed.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@fedpoffa.edu.ng"),
		appURL:   getEnvOrDefault("APP_URL", "http://localhost:3000"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// SendVerificationEmail sends the email verification link to a new user
func (e *EmailService) SendVerificationEmail(toEmail, verifyToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Verification token for %s: %s", toEmail, verifyToken)
		return fmt.Errorf("SMTP not configured")
	}

	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", e.appURL, verifyToken)

	subject := "Verify Your Email - FEDPOFFA CBT Portal"
	body := e.buildEmailBody(userName,
		"Verify your email address",
		"Welcome to the FEDPOFFA CBT portal. Click the button below to verify your email address and activate full access to your account.",
		"Verify Email", verifyLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset email to the user
func (e *EmailService) SendPasswordResetEmail(toEmail, resetToken, userName string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Reset token for %s: %s", toEmail, resetToken)
		return fmt.Errorf("SMTP not configured")
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", e.appURL, resetToken)

	subject := "Reset Your Password - FEDPOFFA CBT Portal"
	body := e.buildEmailBody(userName,
		"Reset your password",
		"We received a request to reset your password. Click the button below to choose a new one. The link expires in one hour; if you did not request this, you can ignore this email.",
		"Reset Password", resetLink)

	return e.sendEmail(toEmail, subject, body)
}

// SendWelcomeEmail sends a welcome message after email verification
func (e *EmailService) SendWelcomeEmail(toEmail, userName string) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	subject := "Welcome to the FEDPOFFA CBT Portal"
	body := e.buildEmailBody(userName,
		"Your account is ready",
		"Your email has been verified. You can now log in, enroll in your program, and register courses for the current semester.",
		"Open Portal", e.appURL)

	return e.sendEmail(toEmail, subject, body)
}

// buildEmailBody renders the shared HTML template for all outgoing mail
func (e *EmailService) buildEmailBody(userName, heading, intro, buttonLabel, buttonLink string) string {
	if userName == "" {
		userName = "Student"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - FEDPOFFA CBT Portal</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        .logo {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #1a5632;
        }
        .logo h1 {
            color: #1a5632;
            font-size: 24px;
            margin: 0;
        }
        h2 {
            color: #1a5632;
            margin-top: 0;
        }
        .button {
            display: inline-block;
            background-color: #1a5632;
            color: #ffffff !important;
            padding: 14px 28px;
            border-radius: 6px;
            text-decoration: none;
            font-weight: 600;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #888;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">
            <h1>FEDPOFFA CBT Portal</h1>
        </div>
        <h2>%s</h2>
        <p>Hello %s,</p>
        <p>%s</p>
        <p style="text-align: center;">
            <a href="%s" class="button">%s</a>
        </p>
        <div class="footer">
            Federal Polytechnic Offa &middot; This is an automated message, please do not reply.
        </div>
    </div>
</body>
</html>`, heading, heading, userName, intro, buttonLink, buttonLabel)
}

func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	// Build the email message with proper headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("FEDPOFFA CBT Portal <%s>", e.from)
	headers["Reply-To"] = "ict@fedpoffa.edu.ng"
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent successfully to: %s", to)
	return nil
}
