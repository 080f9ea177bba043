package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

// SESClient is the subset of the SES API used for delivery.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SES struct {
	client SESClient
}

func NewSES(client SESClient) *SES {
	return &SES{client: client}
}

// NewSESFromConfig loads the AWS configuration for region. Static keys are
// used when both are set; otherwise the default credential chain applies.
func NewSESFromConfig(ctx context.Context, region, accessKeyID, secretAccessKey string) (*SES, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSES(ses.NewFromConfig(cfg)), nil
}

func (s *SES) Send(ctx context.Context, msg Message) error {
	body := &types.Body{
		Text: &types.Content{Charset: aws.String(charset), Data: aws.String(msg.Text)},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Charset: aws.String(charset), Data: aws.String(msg.HTML)}
	}
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String(charset), Data: aws.String(msg.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
