package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

type smtpConfig struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
}

// loadSMTPConfig reads the SMTP settings per call so values loaded from .env
// at startup are picked up. Package-level init would run before godotenv.
func loadSMTPConfig() smtpConfig {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return smtpConfig{
		host:          os.Getenv("SMTP_HOST"),
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          os.Getenv("SMTP_FROM"), // e.g. "Claim System <no-reply@your.org>"
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	cfg := loadSMTPConfig()
	if cfg.host == "" || cfg.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", cfg.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(cfg.host, cfg.port, cfg.user, cfg.pass)

	// Mandatory STARTTLS on 587 (works with Gmail/Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS

	d.TLSConfig = &tls.Config{
		ServerName:         cfg.host,
		InsecureSkipVerify: cfg.skipTLSVerify, // dev only: set SMTP_SKIP_TLS_VERIFY=1 to skip cert checks
	}

	return d.DialAndSend(m)
}
