package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a Notifier posting to a Slack incoming webhook.
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{
		webhookURL: webhookURL,
	}
}

// NotifyPublished posts a one-line summary of the published release.
func (n *notifier) NotifyPublished(ctx context.Context, summary *model.PublishSummary) error {
	text := fmt.Sprintf("Released %s/%s %s (%d assets)",
		summary.Owner, summary.Repo, summary.TagName, len(summary.Assets))
	if summary.ReleaseURL != "" {
		text += "\n" + summary.ReleaseURL
	}

	msg := &slack.WebhookMessage{
		Text: text,
	}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("tag", summary.TagName),
		)
	}
	return nil
}
