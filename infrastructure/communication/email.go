package communication

import (
	"bytes"
	"context"
	"fmt"
	"mime/quotedprintable"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer delivers notifications by email through SES. Recipients are fixed
// at construction: the HR distribution list for leave and announcement events.
type Mailer struct {
	from string
	to   []string
}

func NewMailer(from string, to []string) *Mailer {
	return &Mailer{from: from, to: to}
}

func (m *Mailer) Notify(ctx context.Context, subject, message string) error {
	if len(m.to) == 0 {
		return nil
	}

	raw, err := buildRawEmail(m.from, m.to, subject, message)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	client := ses.NewFromConfig(cfg)

	_, err = client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: raw.Bytes()},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildRawEmail(from string, to []string, subject, text string) (*bytes.Buffer, error) {
	var raw bytes.Buffer

	headers := fmt.Sprintf("From: %s\r\n", from)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(to, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/plain; charset=UTF-8\r\n"
	headers += "Content-Transfer-Encoding: quoted-printable\r\n"
	headers += "\r\n"
	raw.WriteString(headers)

	qp := quotedprintable.NewWriter(&raw)
	if _, err := qp.Write([]byte(text)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	return &raw, nil
}
