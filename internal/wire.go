//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradelog/internal/config"
	"github.com/dushixiang/tradelog/internal/handler"
	"github.com/dushixiang/tradelog/internal/service"
)

var (
	handlerSet = wire.NewSet(
		handler.NewJournalHandler,
	)

	journalSet = wire.NewSet(
		provideOpenAIClient,
		service.NewJournalService,
		service.NewStatsService,
		service.NewReviewService,
		service.NewDigestService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		journalSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}
