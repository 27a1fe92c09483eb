package config

import "github.com/urfave/cli/v3"

// Notify holds notification and error-reporting configuration
type Notify struct {
	SlackWebhookURL string
	SentryDSN       string
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook for publish notifications",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("TAGSHIP_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Destination: &c.SentryDSN,
			Sources:     cli.EnvVars("TAGSHIP_SENTRY_DSN"),
		},
	}
}
