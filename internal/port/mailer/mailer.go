package mailer

type EmailSender interface {
	SendEmail(to []string, subject, body string) error
}
