package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notarycalc/internal/entity"
)

type fakeSES struct {
	got *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSESMailer_Send(t *testing.T) {
	msg := entity.EmailMessage{
		To:      "dana@example.com",
		Subject: "ברוכים הבאים",
		HTML:    `<html dir="rtl">שלום</html>`,
		Kind:    "welcome",
	}

	t.Run("ok", func(t *testing.T) {
		client := &fakeSES{}
		m := NewWithClient(client, "no-reply@notarycalc.co.il", quiet)

		require.NoError(t, m.Send(context.Background(), msg))
		require.NotNil(t, client.got)
		assert.Equal(t, []string{"dana@example.com"}, client.got.Destination.ToAddresses)
		assert.Equal(t, "no-reply@notarycalc.co.il", aws.ToString(client.got.Source))
		assert.Equal(t, msg.Subject, aws.ToString(client.got.Message.Subject.Data))
		assert.Equal(t, msg.HTML, aws.ToString(client.got.Message.Body.Html.Data))
		assert.Equal(t, "UTF-8", aws.ToString(client.got.Message.Body.Html.Charset))
	})

	t.Run("err, ses failure", func(t *testing.T) {
		m := NewWithClient(&fakeSES{err: errors.New("throttled")}, "from@example.com", quiet)
		assert.Error(t, m.Send(context.Background(), msg))
	})

	t.Run("err, missing recipient", func(t *testing.T) {
		client := &fakeSES{}
		m := NewWithClient(client, "from@example.com", quiet)
		assert.ErrorIs(t, m.Send(context.Background(), entity.EmailMessage{Subject: "x"}), ErrInvalidMessage)
		assert.Nil(t, client.got)
	})
}

func TestLogMailer_Send(t *testing.T) {
	m := NewLogMailer(quiet)
	assert.NoError(t, m.Send(context.Background(), entity.EmailMessage{To: "a@b.co", Subject: "s"}))
	assert.ErrorIs(t, m.Send(context.Background(), entity.EmailMessage{}), ErrInvalidMessage)
}
