package main

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// notifyContact emails a new submission to the site owner. It runs in its
// own goroutine after the record is persisted: a notification failure never
// affects the submission outcome. Without SMTP credentials it is a no-op.
func notifyContact(name, email, subject, message string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	toEmail := os.Getenv("TO_EMAIL")

	if smtpUser == "" || smtpPass == "" || toEmail == "" {
		return
	}
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}
	if smtpPort == "" {
		smtpPort = "587"
	}

	mailSubject := fmt.Sprintf("Portfolio Contact: %s", name)
	if subject != "" {
		mailSubject = fmt.Sprintf("Portfolio Contact: %s", subject)
	}

	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	msg := []byte("To: " + toEmail + "\r\n" +
		"Subject: " + mailSubject + "\r\n" +
		"From: " + smtpUser + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, smtpUser, []string{toEmail}, msg); err != nil {
		log.Printf("Error sending contact notification: %v", err)
		return
	}
	log.Printf("Contact notification sent for %s (%s)", name, email)
}
