package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// SESMailer sends through Amazon SES templated email. Template data is
// the message vars plus the subject so templates can render it inline.
type SESMailer struct {
	client   *ses.Client
	from     string
	fromName string
	log      *zap.Logger
}

func NewSESMailer(ctx context.Context, region, from, fromName string, log *zap.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SESMailer{
		client:   ses.NewFromConfig(awsCfg),
		from:     from,
		fromName: fromName,
		log:      log,
	}, nil
}

// SendTemplate never returns an error. Transport failures come back as a
// Result with key EMAIL_ERROR so batch callers can count them and move on.
func (m *SESMailer) SendTemplate(ctx context.Context, msg TemplateMessage) Result {
	data := make(map[string]interface{}, len(msg.Vars)+1)
	for k, v := range msg.Vars {
		data[k] = v
	}
	data["subject"] = msg.Subject

	payload, err := json.Marshal(data)
	if err != nil {
		return Result{Key: ResultError, Code: 500, Message: err.Error(), Email: msg.To}
	}

	in := &ses.SendTemplatedEmailInput{
		Source:       aws.String(fmt.Sprintf("%s <%s>", m.fromName, m.from)),
		Template:     aws.String(msg.Template),
		TemplateData: aws.String(string(payload)),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Tags: sesTags(msg.Tags),
	}

	if _, err := m.client.SendTemplatedEmail(ctx, in); err != nil {
		m.log.Warn("templated send failed",
			zap.String("template", msg.Template),
			zap.String("to", msg.To),
			zap.Error(err))
		return Result{Key: ResultError, Code: 500, Message: err.Error(), Email: msg.To}
	}
	return Result{Key: ResultSent, Code: 200, Email: msg.To}
}

func (m *SESMailer) SendSummary(ctx context.Context, to []string, subject, htmlBody string) error {
	in := &ses.SendEmailInput{
		Source:      aws.String(fmt.Sprintf("%s <%s>", m.fromName, m.from)),
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
			},
		},
	}
	if _, err := m.client.SendEmail(ctx, in); err != nil {
		return fmt.Errorf("sending summary mail: %w", err)
	}
	return nil
}

func sesTags(tags []string) []types.MessageTag {
	out := make([]types.MessageTag, 0, len(tags))
	for i, t := range tags {
		out = append(out, types.MessageTag{
			Name:  aws.String(fmt.Sprintf("tag%d", i)),
			Value: aws.String(t),
		})
	}
	return out
}
