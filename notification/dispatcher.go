package notification

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// DispatchFunc delivers one message to one recipient. Implementations
// are injected so the delay and ordering policy can be tested without
// real external calls.
type DispatchFunc func(recipient string, message string) error

// Dispatcher fans a composed message out to a fixed recipient list,
// sequentially, with a configurable pause between sends. Delivery is
// fire-and-forget: failures are logged and the remaining recipients
// still get their copy.
type Dispatcher struct {
	recipients []string
	send       DispatchFunc
	delay      time.Duration
	sleep      func(time.Duration)
	logger     *logrus.Logger
}

func NewDispatcher(recipients []string, send DispatchFunc, delay time.Duration, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		recipients: recipients,
		send:       send,
		delay:      delay,
		sleep:      time.Sleep,
		logger:     logger,
	}
}

func (d *Dispatcher) Dispatch(message string) {
	for i, recipient := range d.recipients {
		if i > 0 && d.delay > 0 {
			d.sleep(d.delay)
		}
		if err := d.send(recipient, message); err != nil {
			d.logger.WithFields(logrus.Fields{
				"path":      "notification/dispatcher",
				"recipient": recipient,
			}).Error("Could not dispatch notification: ", err)
		}
	}
}

// DeepLinkSend opens a pre-addressed deep link per recipient with the
// message as a URL-escaped query parameter.
func DeepLinkSend(baseURL string, client *http.Client) DispatchFunc {
	return func(recipient string, message string) error {
		link := fmt.Sprintf("%s/%s?text=%s",
			strings.TrimRight(baseURL, "/"), recipient, url.QueryEscape(message))
		resp, err := client.Get(link)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return fmt.Errorf("deep link dispatch returned status %d", resp.StatusCode)
		}
		return nil
	}
}

// EmailSend delivers the summary over SMTP, recipient being the email
// address.
func EmailSend(from string, smtpHost string, smtpPort int, smtpUser string, smtpPass string) DispatchFunc {
	return func(recipient string, message string) error {
		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", recipient)
		m.SetHeader("Subject", "New booking request")
		m.SetBody("text/plain", message)

		d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
		return d.DialAndSend(m)
	}
}
