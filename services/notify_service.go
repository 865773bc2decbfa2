package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"time"

	"laundrypos-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Notifier sends one message over one channel.
type Notifier interface {
	Send(to, message string) error
}

// TwilioNotifier delivers SMS through the Twilio REST API.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioNotifier() *TwilioNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSid == "" || authToken == "" {
		return nil
	}
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (n *TwilioNotifier) Send(to, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("SMS sent to %s, SID: %s", to, *resp.Sid)
	}
	return nil
}

// SMTPNotifier delivers email over plain SMTP.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPNotifier() *SMTPNotifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return &SMTPNotifier{addr: host + ":" + port, from: from, auth: auth}
}

func (n *SMTPNotifier) Send(to, message string) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Order update\r\n\r\n%s\r\n", n.from, to, message)
	return smtp.SendMail(n.addr, n.auth, n.from, []string{to}, []byte(body))
}

// NotifyService fans a status update out to every resolvable channel:
// the order's phone gets SMS, a linked customer's email gets email. Each
// attempt is recorded; failures are logged and swallowed so notification
// never blocks or reverts the status change that triggered it.
type NotifyService struct {
	db    *gorm.DB
	sms   Notifier
	email Notifier
}

func NewNotifyService(db *gorm.DB) *NotifyService {
	var sms, email Notifier
	if t := NewTwilioNotifier(); t != nil {
		sms = t
	}
	if m := NewSMTPNotifier(); m != nil {
		email = m
	}
	return &NotifyService{db: db, sms: sms, email: email}
}

// NewNotifyServiceWith injects channels directly; used by tests and the
// scheduler.
func NewNotifyServiceWith(db *gorm.DB, sms, email Notifier) *NotifyService {
	return &NotifyService{db: db, sms: sms, email: email}
}

func (s *NotifyService) NotifyStatus(order *models.Order, customer *models.Customer) {
	message := fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, order.Status)

	if s.sms != nil && order.CustomerPhone != "" {
		s.attempt(order, "sms", order.CustomerPhone, message)
	}
	if s.email != nil && customer != nil && customer.Email != "" {
		s.attempt(order, "email", customer.Email, message)
	}
}

// SendSMS is the raw SMS path used by the pickup reminder job.
func (s *NotifyService) SendSMS(order *models.Order, message string) {
	if s.sms == nil || order.CustomerPhone == "" {
		return
	}
	s.attempt(order, "sms", order.CustomerPhone, message)
}

func (s *NotifyService) attempt(order *models.Order, channel, to, message string) {
	var notifier Notifier
	switch channel {
	case "sms":
		notifier = s.sms
	case "email":
		notifier = s.email
	}

	status := "sent"
	errorMsg := ""
	if err := notifier.Send(to, message); err != nil {
		log.Printf("order %s: %s to %s failed: %v", order.OrderNumber, channel, to, err)
		status = "failed"
		errorMsg = err.Error()
	}

	entry := models.NotificationLog{
		OrderID:      order.ID,
		Recipient:    to,
		Channel:      channel,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("order %s: failed to log %s notification: %v", order.OrderNumber, channel, err)
	}
}
