package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

func send(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}
	if host == "" || port == "" || user == "" || pass == "" || from == "" {
		return fmt.Errorf("SMTP environment variables missing")
	}
	addr := fmt.Sprintf("%s:%s", host, port)
	auth := smtp.PlainAuth("", user, pass, host)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body))
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// SendWelcome greets a new account after registration.
func SendWelcome(to string) error {
	subject := "Welcome to TripCraft"
	body := "Thanks for signing up! Your account starts with 3 free itinerary generations - enjoy planning your next trip."
	if err := send(to, subject, body); err != nil {
		return err
	}
	log.Printf("[email] welcome sent to %s", to)
	return nil
}

// SendUpgradeSuggestion nudges a free-tier user who ran out of credits
// toward a package.
func SendUpgradeSuggestion(to string) error {
	subject := "You're out of trip credits"
	body := "You've used all your free itinerary generations. Pick up a Basic, Premium or Ultimate package to keep planning."
	if err := send(to, subject, body); err != nil {
		return err
	}
	log.Printf("[email] upgrade suggestion sent to %s", to)
	return nil
}
