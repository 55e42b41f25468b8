// Package notify sends a best-effort email to the sales inbox when a new
// contact form arrives. Delivery failures are logged and never affect the
// API response.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/marketing-site/internal/config"
	"github.com/ignite/marketing-site/internal/model"
	"github.com/ignite/marketing-site/internal/pkg/logger"
)

// SESNotifier delivers contact notifications through AWS SES.
type SESNotifier struct {
	client *sesv2.Client
	from   string
	to     string
}

// NewSESNotifier creates a notifier, or returns nil when notifications
// are disabled in config.
func NewSESNotifier(ctx context.Context, cfg config.NotifyConfig, region, profile string) (*SESNotifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.FromAddress == "" || cfg.ToAddress == "" {
		return nil, fmt.Errorf("notify enabled but from/to address missing")
	}

	var awsCfg aws.Config
	var err error
	if profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESNotifier{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.FromAddress,
		to:     cfg.ToAddress,
	}, nil
}

// ContactSubmitted sends a single transactional notification about a new
// contact. Best-effort: errors are logged, not returned.
func (n *SESNotifier) ContactSubmitted(ctx context.Context, c model.Contact) {
	body := fmt.Sprintf("New contact form submission\n\nName: %s\nEmail: %s\n", c.Name, c.Email)
	if c.Company != nil {
		body += fmt.Sprintf("Company: %s\n", *c.Company)
	}
	if c.Phone != nil {
		body += fmt.Sprintf("Phone: %s\n", *c.Phone)
	}
	if c.PlanInterest != nil {
		body += fmt.Sprintf("Plan interest: %s\n", *c.PlanInterest)
	}
	if c.Message != nil {
		body += fmt.Sprintf("\n%s\n", *c.Message)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from),
		Destination:      &types.Destination{ToAddresses: []string{n.to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(fmt.Sprintf("New contact inquiry from %s", c.Name)),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		logger.Warn("contact notification failed", "email", c.Email, "err", err)
		return
	}
	logger.Info("contact notification sent", "email", c.Email)
}
