package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/foosball-elo/internal/ladder"
	"github.com/mauv0809/foosball-elo/internal/metrics"
	"github.com/mauv0809/foosball-elo/internal/processor"
	"github.com/mauv0809/foosball-elo/internal/stats"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestNewNotifier_WithoutTokenOnlyLogs(t *testing.T) {
	metrics := metrics.NewMock()
	notifier := NewNotifier("", "C123", metrics)

	err := notifier.SendLeaderboard(nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendRatingUpdate_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendRatingUpdate(&processor.UpdateSummary{Date: time.Now()}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendRatingUpdate")
}

func TestFormatRatingUpdate(t *testing.T) {
	summary := &processor.UpdateSummary{
		Date:            time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		GamesConsumed:   1,
		ActivePlayers:   4,
		InactivePlayers: 1,
		Changes: []processor.RatingChange{
			{Name: "alice", Before: 400, After: 416},
			{Name: "bob", Before: 400, After: 416},
			{Name: "erin", Before: 400, After: 400},
			{Name: "carol", Before: 400, After: 384},
		},
	}
	client := &Notifier{channelID: "C123"}
	msg := client.formatRatingUpdate(summary)
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected header, context, divider and changes")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, ":soccer: Ratings updated for Monday, March 11", header.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[1].(*slackapi.ContextBlock)
	require.True(t, ok, "Second block should be a ContextBlock")
	overview, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "*Games*: 1 | *Active players*: 4 | *Inactive players*: 1", overview.Text)

	changes, ok := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
	require.True(t, ok, "Fourth block should be a SectionBlock")
	assert.Contains(t, changes.Text.Text, "*alice* 400 → 416 (+16)")
	assert.Contains(t, changes.Text.Text, ":arrow_down_small: *carol* 400 → 384 (-16)")
	assert.NotContains(t, changes.Text.Text, "erin", "unchanged players are left out")
}

func TestFormatRatingUpdate_NoChanges(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatRatingUpdate(&processor.UpdateSummary{Date: time.Now(), DryRun: true})
	require.Len(t, msg.Blocks.BlockSet, 3)

	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Contains(t, header.Text.Text, "(dry run)")
}

func TestFormatLeaderboard(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("with players", func(t *testing.T) {
		players := []ladder.RankedPlayer{
			{Player: ladder.Player{Name: "alice"}, Rating: 450},
			{Player: ladder.Player{Name: "bob"}, Rating: 420},
			{Player: ladder.Player{Name: "carol"}, Rating: 380},
		}
		msg := client.formatLeaderboard(players)
		require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks (header + 3 players)")

		player1, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player1.Text.Text, "1. :first_place_medal: alice")
		assert.Contains(t, player1.Text.Text, "> *Rating*: 450")

		player3 := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		assert.Contains(t, player3.Text.Text, "3. :third_place_medal: carol")
	})

	t.Run("empty", func(t *testing.T) {
		msg := client.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
	})
}

func TestFormatPlayerStats(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatPlayerStats(&stats.Record{
		Name:                  "alice",
		CurrentRating:         430,
		GamesPlayed:           4,
		GamesWon:              3,
		WinPercentage:         75,
		AverageOpponentRating: 402.5,
		HighestOpponentRating: 440,
		EggsDealt:             1,
	})
	require.Len(t, msg.Blocks.BlockSet, 2)

	header := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	assert.Equal(t, ":bar_chart: Stats for alice", header.Text.Text)

	body := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, body.Text.Text, "*Win %*: 75.00% (3/4)")
	assert.Contains(t, body.Text.Text, "avg 402.5, best 440.0")
	assert.Contains(t, body.Text.Text, "*Eggs*: 1 dealt, 0 collected")
}
