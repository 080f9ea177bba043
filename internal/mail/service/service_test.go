package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/mail/mailer"
	dErrors "warehouse/pkg/domain-errors"
)

type outbox struct {
	sent []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

func TestSend_RendersTemplate(t *testing.T) {
	box := &outbox{}
	svc := New(box, "no-reply@warehouse.local")

	receipt, err := svc.Send(context.Background(), SendInput{
		To:      "jane.doe@example.com",
		Message: "Your delivery <b>arrived</b>.",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", receipt.Recipient)
	assert.Equal(t, DefaultSubject, receipt.Subject)

	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, "no-reply@warehouse.local", msg.From)
	assert.Contains(t, msg.Text, "Hello Jane,")
	assert.Contains(t, msg.Text, "Your delivery <b>arrived</b>.")
	assert.Contains(t, msg.HTML, "Your delivery &lt;b&gt;arrived&lt;/b&gt;.")
}

func TestSend_RecipientOverride(t *testing.T) {
	box := &outbox{}
	svc := New(box, "no-reply@warehouse.local", WithRecipientOverride(" qa@example.com "))

	receipt, err := svc.Send(context.Background(), SendInput{
		To:      "customer@example.com",
		Name:    "Customer",
		Subject: "Order update",
		Message: "Shipped",
	})
	require.NoError(t, err)
	assert.Equal(t, "qa@example.com", receipt.Recipient)
	require.Len(t, box.sent, 1)
	assert.Equal(t, "qa@example.com", box.sent[0].To)
	assert.Equal(t, "Order update", box.sent[0].Subject)
	assert.Contains(t, box.sent[0].Text, "Hello Customer,")
}

func TestSend_MailerFailure(t *testing.T) {
	svc := New(&outbox{err: errors.New("smtp down")}, "no-reply@warehouse.local")

	_, err := svc.Send(context.Background(), SendInput{To: "a@example.com", Message: "x"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestSend_GreetingFromAddress(t *testing.T) {
	cases := []struct {
		to   string
		want string
	}{
		{to: "jane.doe@example.com", want: "Hello Jane,"},
		{to: "receiving+dock4@example.com", want: "Hello Receiving,"},
		{to: "_ops-team@example.com", want: "Hello Ops,"},
		{to: "1234@example.com", want: "Hello Customer,"},
		{to: "@example.com", want: "Hello Customer,"},
	}
	for _, tc := range cases {
		t.Run(tc.to, func(t *testing.T) {
			box := &outbox{}
			_, err := New(box, "no-reply@warehouse.local").Send(context.Background(), SendInput{To: tc.to, Message: "Stock count due"})
			require.NoError(t, err)
			require.Len(t, box.sent, 1)
			assert.Contains(t, box.sent[0].Text, tc.want)
		})
	}
}
