package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/metrics"
	"github.com/mauv0809/foosball-elo/internal/notifier"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Without a token every message is only
// logged, as in dry-run mode.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	if token == "" {
		log.Warn("SLACK_BOT_TOKEN not set, Slack notifications will be logged only")
		return &Notifier{channelID: channelID, metrics: metrics}
	}
	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendRatingUpdate(summary *processor.UpdateSummary, dryRun bool) error {
	msg := s.formatRatingUpdate(summary)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(players []ladder.RankedPlayer, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []ladder.RankedPlayer) (any, error) {
	return s.formatLeaderboard(players), nil
}

// FormatPlayerStatsResponse formats a player stats message for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(record *stats.Record) (any, error) {
	return s.formatPlayerStats(record), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// formatRatingUpdate lists every player whose rating moved in the batch.
func (s *Notifier) formatRatingUpdate(summary *processor.UpdateSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	header := fmt.Sprintf(":soccer: Ratings updated for %s", summary.Date.Format("Monday, January 2"))
	if summary.DryRun {
		header += " (dry run)"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)))

	overview := fmt.Sprintf("*Games*: %d | *Active players*: %d | *Inactive players*: %d",
		summary.GamesConsumed, summary.ActivePlayers, summary.InactivePlayers)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", overview, false, false)))

	var lines []string
	for _, c := range summary.Changes {
		if c.Diff() == 0 {
			continue
		}
		arrow := ":arrow_up_small:"
		if c.Diff() < 0 {
			arrow = ":arrow_down_small:"
		}
		lines = append(lines, fmt.Sprintf("%s *%s* %d → %d (%+d)", arrow, c.Name, c.Before, c.After, c.Diff()))
	}
	if len(lines) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No rating changes this time.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	blocks = append(blocks, slack.NewDividerBlock())
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(players []ladder.RankedPlayer) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", ":trophy: Foosball Leaderboard :trophy:", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players registered yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	// Player Ranks
	for i, player := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = ":first_place_medal:"
		case 2:
			medal = ":second_place_medal:"
		case 3:
			medal = ":third_place_medal:"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> *Rating*: %d",
			rank,
			medal,
			player.Name,
			player.Rating,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message to display a single player's stats.
func (s *Notifier) formatPlayerStats(record *stats.Record) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf(":bar_chart: Stats for %s", record.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	playerText := fmt.Sprintf("> *Rating*: %d\n> *Win %%*: %.2f%% (%d/%d)\n> *Opponent rating*: avg %.1f, best %.1f\n> *Eggs*: %d dealt, %d collected",
		record.CurrentRating,
		record.WinPercentage,
		record.GamesWon,
		record.GamesPlayed,
		record.AverageOpponentRating,
		record.HighestOpponentRating,
		record.EggsDealt,
		record.EggsCollected,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player's stats are not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player named *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
