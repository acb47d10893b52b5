package service

import (
	"context"
	"strings"
	"testing"

	"github.com/dushixiang/tradelog/internal/config"
	"github.com/dushixiang/tradelog/internal/xe"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReviewFixture(t *testing.T, conf config.LlmConf) (*JournalService, *ReviewService) {
	t.Helper()
	db := setupTestDB(t)
	journal := NewJournalService(db, zap.NewNop())
	client := openai.NewClient()
	review := NewReviewService(db, &client, journal, zap.NewNop(), &config.Config{LLM: conf})
	return journal, review
}

func TestReviewTrade_UnavailableWithoutConfig(t *testing.T) {
	journal, review := newReviewFixture(t, config.LlmConf{})
	ctx := context.Background()

	trade, err := journal.CreateTrade(ctx, validRequest())
	require.NoError(t, err)

	_, err = review.ReviewTrade(ctx, trade.ID)
	assert.ErrorIs(t, err, xe.ErrReviewUnavailable)

	// 失败时交易记录保持不变
	stored, err := journal.GetTrade(ctx, trade.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AIReview)

	logs, err := review.GetReviewLogs(ctx, trade.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestReviewTrade_NotFoundPassesThrough(t *testing.T) {
	_, review := newReviewFixture(t, config.LlmConf{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  "test-key",
		Model:   "gpt-4o",
	})

	_, err := review.ReviewTrade(context.Background(), "missing")
	assert.ErrorIs(t, err, xe.ErrTradeNotFound)
}

func TestParseReviewPayload(t *testing.T) {
	payload := `{
		"grade": "B",
		"summary": "Decent breakout trade.",
		"strengths": ["clear stop placement"],
		"mistakes": ["exited before target"],
		"risk_flags": []
	}`

	review, err := parseReviewPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "B", review.Grade)
	assert.Equal(t, "Decent breakout trade.", review.Summary)
	assert.Equal(t, []string{"clear stop placement"}, review.Strengths)
}

func TestParseReviewPayload_StripsMarkdownFences(t *testing.T) {
	payload := "```json\n{\"grade\": \"A\", \"summary\": \"Textbook execution.\"}\n```"

	review, err := parseReviewPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "A", review.Grade)
	assert.Equal(t, "Textbook execution.", review.Summary)
}

func TestParseReviewPayload_AllFieldsOptional(t *testing.T) {
	review, err := parseReviewPayload(`{}`)
	require.NoError(t, err)
	assert.Empty(t, review.Grade)
	assert.Empty(t, review.Summary)
	assert.Nil(t, review.Strengths)
}

func TestParseReviewPayload_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty content", ""},
		{"fence only", "```json\n```"},
		{"not JSON", "the trade was fine"},
		{"unknown grade", `{"grade": "S"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseReviewPayload(tt.content)
			assert.Error(t, err)
		})
	}
}

func TestBuildReviewPrompt(t *testing.T) {
	journal, _ := newReviewFixture(t, config.LlmConf{})
	ctx := context.Background()

	req := validRequest()
	req.ExitPrice = floatPtr(1.0900)
	trade, err := journal.CreateTrade(ctx, req)
	require.NoError(t, err)

	prompt := buildReviewPrompt(trade)
	assert.Contains(t, prompt, "EUR/USD")
	assert.Contains(t, prompt, "Direction: Long")
	assert.Contains(t, prompt, "Exit price: 1.09")
	assert.Contains(t, prompt, "Trader notes:")

	// 未平仓交易标注为未平仓
	open, err := journal.CreateTrade(ctx, validRequest())
	require.NoError(t, err)
	openPrompt := buildReviewPrompt(open)
	assert.Contains(t, openPrompt, "not closed yet")
	assert.False(t, strings.Contains(openPrompt, "Realized PnL"))
}
