package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dushixiang/tradelog/internal/config"
	"github.com/dushixiang/tradelog/internal/telegram"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultDigestCron = "0 8 * * *"

// DigestService 每日摘要调度器：按cron表达式汇总仪表盘统计并推送到Telegram。
// 未配置Telegram时不调度任何任务。
type DigestService struct {
	conf   config.Config
	stats  *StatsService
	tg     *telegram.Telegram
	logger *zap.Logger

	cron *cron.Cron
}

// NewDigestService 创建每日摘要服务
func NewDigestService(
	conf *config.Config,
	stats *StatsService,
	tg *telegram.Telegram,
	logger *zap.Logger,
) *DigestService {
	return &DigestService{
		conf:   *conf,
		stats:  stats,
		tg:     tg,
		logger: logger,
	}
}

// Start 启动摘要调度
func (s *DigestService) Start() error {
	if s.tg == nil || !s.conf.Telegram.Enabled {
		s.logger.Info("telegram not configured, daily digest disabled")
		return nil
	}

	cronExpr := s.conf.Journal.DigestCron
	if cronExpr == "" {
		cronExpr = defaultDigestCron
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(cronExpr, func() {
		if err := s.SendDigest(context.Background()); err != nil {
			s.logger.Error("failed to send daily digest", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add digest cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("daily digest scheduled", zap.String("cron_expression", cronExpr))

	s.tg.HandleCommand("/digest", func() (string, error) {
		return s.digestMessage(context.Background())
	})
	return nil
}

// Stop 停止摘要调度，等待在途任务完成
func (s *DigestService) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.logger.Info("digest scheduler stopped")
	}
}

// SendDigest 立即汇总并推送一次摘要
func (s *DigestService) SendDigest(ctx context.Context) error {
	msg, err := s.digestMessage(ctx)
	if err != nil {
		return err
	}
	return s.tg.Notify(s.conf.Telegram.ChatID, msg)
}

// digestMessage 渲染当前仪表盘统计与最近交易的Markdown摘要
func (s *DigestService) digestMessage(ctx context.Context) (string, error) {
	snapshot, err := s.stats.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to build stats snapshot: %w", err)
	}

	recent, err := s.stats.RecentTrades(ctx, 5)
	if err != nil {
		return "", fmt.Errorf("failed to load recent trades: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("*Trading Journal Digest*\n\n")
	fmt.Fprintf(&sb, "Today PnL: %.2f\n", snapshot.TodayPnl)
	fmt.Fprintf(&sb, "Win rate: %.1f%%\n", snapshot.WinRate)
	fmt.Fprintf(&sb, "Average R: %.2f\n", snapshot.AverageR)
	fmt.Fprintf(&sb, "Total trades: %d\n", snapshot.TotalTrades)

	if len(recent) > 0 {
		sb.WriteString("\n*Recent trades*\n")
		for i := range recent {
			t := &recent[i]
			if t.Pnl != nil {
				fmt.Fprintf(&sb, "- %s %s  pnl %.2f\n", t.Instrument, t.Direction, *t.Pnl)
			} else {
				fmt.Fprintf(&sb, "- %s %s  open\n", t.Instrument, t.Direction)
			}
		}
	}

	return sb.String(), nil
}
