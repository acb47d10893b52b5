package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dushixiang/tradelog/internal/config"
	"github.com/dushixiang/tradelog/internal/models"
	"github.com/dushixiang/tradelog/internal/repo"
	"github.com/dushixiang/tradelog/internal/xe"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed templates/review_instructions.txt
var reviewInstructionsTemplate string

// ReviewService AI复盘编排服务：把交易记录交给外部LLM，
// 解析结构化复盘结果，成功后才写回交易记录。
// 失败时只留下复盘日志，交易记录保持不变。
type ReviewService struct {
	logger *zap.Logger

	*orz.Service
	*repo.ReviewLogRepo

	journal      *JournalService
	openAIClient *openai.Client
	llmConf      config.LlmConf
}

// NewReviewService 创建AI复盘服务
func NewReviewService(
	db *gorm.DB,
	openAIClient *openai.Client,
	journal *JournalService,
	logger *zap.Logger,
	conf *config.Config,
) *ReviewService {
	return &ReviewService{
		logger:        logger,
		Service:       orz.NewService(db),
		ReviewLogRepo: repo.NewReviewLogRepo(db),
		journal:       journal,
		openAIClient:  openAIClient,
		llmConf:       conf.LLM,
	}
}

// Available 复盘服务是否已配置
func (s *ReviewService) Available() bool {
	return s.openAIClient != nil && s.llmConf.APIKey != "" && s.llmConf.Model != ""
}

// ReviewTrade 对指定交易执行一次AI复盘。
// 每次调用都会留下一条复盘日志；只有拿到可解析的结果才更新交易记录。
func (s *ReviewService) ReviewTrade(ctx context.Context, tradeID string) (*models.Trade, error) {
	if !s.Available() {
		return nil, xe.ErrReviewUnavailable
	}

	trade, err := s.journal.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	systemPrompt := s.buildSystemInstructions()
	userPrompt := buildReviewPrompt(trade)

	reviewLog := &models.ReviewLog{
		ID:           ulid.Make().String(),
		TradeID:      trade.ID,
		Model:        s.llmConf.Model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		ExecutedAt:   time.Now(),
	}

	start := time.Now()
	resp, err := s.openAIClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.llmConf.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	reviewLog.Duration = time.Since(start).Milliseconds()

	if err != nil {
		reviewLog.Error = err.Error()
		s.saveReviewLog(ctx, reviewLog)
		s.logger.Error("LLM review request failed",
			zap.String("trade_id", trade.ID),
			zap.Error(err))
		return nil, xe.ErrReviewFailed
	}

	reviewLog.PromptTokens = int(resp.Usage.PromptTokens)
	reviewLog.CompletionTokens = int(resp.Usage.CompletionTokens)
	reviewLog.TotalTokens = int(resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		reviewLog.Error = "empty choices in completion response"
		s.saveReviewLog(ctx, reviewLog)
		return nil, xe.ErrReviewFailed
	}

	choice := resp.Choices[0]
	reviewLog.AssistantContent = choice.Message.Content
	reviewLog.FinishReason = string(choice.FinishReason)

	review, err := parseReviewPayload(choice.Message.Content)
	if err != nil {
		reviewLog.Error = err.Error()
		s.saveReviewLog(ctx, reviewLog)
		s.logger.Error("failed to parse review payload",
			zap.String("trade_id", trade.ID),
			zap.Error(err))
		return nil, xe.ErrReviewFailed
	}

	s.saveReviewLog(ctx, reviewLog)

	updated, err := s.journal.AttachReview(ctx, trade.ID, review)
	if err != nil {
		return nil, err
	}

	s.logger.Info("trade review attached",
		zap.String("trade_id", trade.ID),
		zap.String("grade", review.Grade),
		zap.Int("total_tokens", reviewLog.TotalTokens))

	return updated, nil
}

// GetReviewLogs 查询某笔交易的全部复盘日志
func (s *ReviewService) GetReviewLogs(ctx context.Context, tradeID string) ([]models.ReviewLog, error) {
	return s.ReviewLogRepo.FindByTradeID(ctx, tradeID)
}

func (s *ReviewService) saveReviewLog(ctx context.Context, log *models.ReviewLog) {
	if err := s.ReviewLogRepo.Create(ctx, log); err != nil {
		s.logger.Error("failed to save review log",
			zap.String("trade_id", log.TradeID),
			zap.Error(err))
	}
}

func (s *ReviewService) buildSystemInstructions() string {
	tmpl := fasttemplate.New(reviewInstructionsTemplate, "{{", "}}")
	return tmpl.ExecuteString(map[string]interface{}{
		"current_date": time.Now().Format("2006-01-02"),
	})
}

// buildReviewPrompt 把交易记录整理成给LLM的事实清单
func buildReviewPrompt(trade *models.Trade) string {
	var sb strings.Builder

	sb.WriteString("Review this journaled trade:\n\n")
	fmt.Fprintf(&sb, "Instrument: %s\n", trade.Instrument)
	fmt.Fprintf(&sb, "Direction: %s\n", trade.Direction)
	fmt.Fprintf(&sb, "Entry price: %g\n", trade.EntryPrice)
	fmt.Fprintf(&sb, "Stop price: %g\n", trade.StopPrice)
	fmt.Fprintf(&sb, "Take profit price: %g\n", trade.TakeProfitPrice)
	fmt.Fprintf(&sb, "Quantity: %g\n", trade.Quantity)
	fmt.Fprintf(&sb, "Entry time: %s\n", trade.EntryTime.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Exit time: %s\n", trade.ExitTime.Format(time.RFC3339))

	if trade.ExitPrice != nil {
		fmt.Fprintf(&sb, "Exit price: %g\n", *trade.ExitPrice)
	} else {
		sb.WriteString("Exit price: not closed yet\n")
	}
	if trade.Pnl != nil {
		fmt.Fprintf(&sb, "Realized PnL: %g\n", *trade.Pnl)
	}
	if trade.RMultiple != nil {
		fmt.Fprintf(&sb, "R-multiple: %g\n", *trade.RMultiple)
	}
	if trade.Notes != "" {
		fmt.Fprintf(&sb, "\nTrader notes:\n%s\n", trade.Notes)
	}

	return sb.String()
}

// parseReviewPayload 解析LLM返回的JSON复盘内容。
// 模型偶尔会包一层markdown代码块，先剥掉再解析。
func parseReviewPayload(content string) (models.AIReview, error) {
	var review models.AIReview

	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return review, fmt.Errorf("empty review content")
	}

	if err := json.Unmarshal([]byte(text), &review); err != nil {
		return review, fmt.Errorf("invalid review JSON: %w", err)
	}

	switch review.Grade {
	case "", "A", "B", "C", "D", "F":
	default:
		return models.AIReview{}, fmt.Errorf("unexpected grade %q", review.Grade)
	}

	return review, nil
}
