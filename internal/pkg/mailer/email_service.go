package mailer

import (
	"errors"
	"fmt"
	"html"
	"io"

	"gopkg.in/gomail.v2"
)

var ErrMailerDisabled = errors.New("mailer is not configured")

type IEmailService interface {
	Enabled() bool
	SendWaitlistConfirmation(toEmail, name string) error
	SendSessionNotes(toEmail, subject string, notesHTML []byte, fileName string) error
}

// sender is the part of *gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	frontendURL string
}

// NewEmailService returns a disabled service when host or sender is empty;
// every send then fails with ErrMailerDisabled.
func NewEmailService(host string, port int, username, password, senderEmail, senderName, frontendURL string) IEmailService {
	s := &emailService{
		senderEmail: senderEmail,
		senderName:  senderName,
		frontendURL: frontendURL,
	}
	if host != "" && senderEmail != "" {
		s.dialer = gomail.NewDialer(host, port, username, password)
	}
	return s
}

func (s *emailService) Enabled() bool {
	return s.dialer != nil
}

func (s *emailService) newMessage(toEmail, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	return m
}

func (s *emailService) SendWaitlistConfirmation(toEmail, name string) error {
	if !s.Enabled() {
		return ErrMailerDisabled
	}
	m := s.newMessage(toEmail, "You're on the Tuitionly waitlist!")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for joining, %s!</h2>
			<p>You're on the Tuitionly waitlist. We'll let you know as soon as your spot opens up.</p>
			<p>In the meantime you can try a live demo session with one of our AI tutors:</p>
			<a href="%s/demo" style="background-color: #7C3AED; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Try the demo</a>
			<p>If you didn't sign up, please ignore this email.</p>
		</div>
	`, html.EscapeString(name), html.EscapeString(s.frontendURL))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send waitlist confirmation to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendSessionNotes(toEmail, subject string, notesHTML []byte, fileName string) error {
	if !s.Enabled() {
		return ErrMailerDisabled
	}
	m := s.newMessage(toEmail, fmt.Sprintf("Your %s session notes", subject))
	m.SetBody("text/html", string(notesHTML))
	m.Attach(fileName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(notesHTML)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send session notes to %s: %w", toEmail, err)
	}
	return nil
}
