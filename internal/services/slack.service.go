package services

import (
	"strings"
	"sync"
	"time"

	"smartdry/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/slack-go/slack"
)

// SlackService mirrors warning and error notifications into an ops channel.
// It is nil-safe: when Slack is not configured, New returns nil and every
// method is a no-op, so callers never need to check.
type SlackService struct {
	api       *slack.Client
	channelID string
	log       logger.Logger

	mu               sync.Mutex
	rateLimitedUntil time.Time
}

func NewSlackService(cfg config.Config) *SlackService {
	log := logger.New("SlackService")

	if cfg.SlackToken == "" || cfg.SlackChannelID == "" {
		log.Info("Slack not configured, ops channel mirroring disabled")
		return nil
	}

	return &SlackService{
		api:       slack.New(cfg.SlackToken),
		channelID: cfg.SlackChannelID,
		log:       log,
	}
}

// NotifyCycleIssue mirrors a warning/error notification into the ops channel.
// Failures are logged and swallowed; Slack is never on the request path.
func (ss *SlackService) NotifyCycleIssue(title, message, level string) {
	if ss == nil {
		return
	}

	log := ss.log.Function("NotifyCycleIssue")

	if ss.isRateLimited() {
		log.Debug("skipping Slack message during rate limit backoff")
		return
	}

	attachment := slack.Attachment{
		Color: levelColor(level),
		Title: title,
		Text:  message,
	}

	_, _, err := ss.api.PostMessage(ss.channelID, slack.MsgOptionAttachments(attachment))
	if err != nil {
		if isSlackRateLimitError(err) {
			ss.handleRateLimit(err)
		} else {
			log.Warn("failed to send Slack message", "error", err)
		}
	}
}

func levelColor(level string) string {
	switch level {
	case "error":
		return "danger"
	case "warning":
		return "warning"
	default:
		return "#439FE0"
	}
}

func (ss *SlackService) isRateLimited() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return time.Now().Before(ss.rateLimitedUntil)
}

// handleRateLimit backs off for a minute, longer when the workspace message
// limit is exceeded.
func (ss *SlackService) handleRateLimit(err error) {
	backoff := 1 * time.Minute
	if strings.Contains(strings.ToLower(err.Error()), "message_limit_exceeded") {
		backoff = 5 * time.Minute
	}

	ss.mu.Lock()
	ss.rateLimitedUntil = time.Now().Add(backoff)
	ss.mu.Unlock()

	ss.log.Warn("Slack rate limit detected, suppressing messages", "backoff", backoff, "error", err)
}

func isSlackRateLimitError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate_limited") ||
		strings.Contains(errStr, "message_limit_exceeded") ||
		strings.Contains(errStr, "too_many_requests")
}
