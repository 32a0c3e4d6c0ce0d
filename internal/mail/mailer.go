package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Notifier 注册通知出口。调用方负责把失败隔离成 best-effort，
// 这里只管投递。
type Notifier interface {
	WelcomeUser(name, email string) error
	NewUserAlert(name, email string) error
}

type SMTPNotifier struct {
	dialer   *gomail.Dialer
	from     string
	operator string
}

func NewSMTP(host string, port int, username, password, from, operator string) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		operator: operator,
	}
}

func (n *SMTPNotifier) WelcomeUser(name, email string) error {
	body := fmt.Sprintf("Hi %s,\n\nThank you for registering with Goeat. Enjoy your desserts!", name)
	return n.send(email, "Welcome to Goeat!", body)
}

func (n *SMTPNotifier) NewUserAlert(name, email string) error {
	body := fmt.Sprintf("New user registered:\n\nName: %s\nEmail: %s", name, email)
	return n.send(n.operator, "New User Registered", body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return n.dialer.DialAndSend(m)
}
