package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	sharedConfig "github.com/orris-inc/proxyshop/internal/shared/config"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func newTestService(d dialer) *SMTPEmailService {
	return &SMTPEmailService{
		config: sharedConfig.EmailConfig{
			FromAddress: "noreply@proxyshop.test",
			FromName:    "Proxyshop",
		},
		dialer: d,
	}
}

func TestSMTPEmailService_Send(t *testing.T) {
	d := &fakeDialer{}
	svc := newTestService(d)

	err := svc.Send(Message{
		To:        "user@example.com",
		Subject:   "Your proxy expires soon",
		HTMLBody:  "<p>hello</p>",
		PlainBody: "hello",
	})

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"user@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Your proxy expires soon"}, d.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<p>hello</p>")
	assert.Contains(t, buf.String(), "Proxyshop")
}

func TestSMTPEmailService_Send_EmptyRecipient(t *testing.T) {
	d := &fakeDialer{}

	err := newTestService(d).Send(Message{Subject: "x"})

	assert.Error(t, err)
	assert.Empty(t, d.sent)
}

func TestSMTPEmailService_Send_DialError(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}

	err := newTestService(d).Send(Message{To: "user@example.com"})

	assert.ErrorContains(t, err, "connection refused")
}
