package internal

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dushixiang/tradelog/internal/config"
	"github.com/dushixiang/tradelog/internal/handler"
	"github.com/dushixiang/tradelog/internal/models"
	"github.com/dushixiang/tradelog/internal/service"
	"github.com/dushixiang/tradelog/internal/telegram"
	"github.com/dushixiang/tradelog/pkg/nostd"
	"github.com/dushixiang/tradelog/web"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewTradelogApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewTradelogApp() orz.Application {
	return &TradelogApp{}
}

var _ orz.Application = (*TradelogApp)(nil)

type AppComponents struct {
	JournalHandler *handler.JournalHandler

	JournalService *service.JournalService
	StatsService   *service.StatsService
	ReviewService  *service.ReviewService
	DigestService  *service.DigestService

	tg *telegram.Telegram
}

type TradelogApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *TradelogApp) GetComponents() *AppComponents {
	return r.components
}

func (r *TradelogApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Trade{}, models.ReviewLog{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().RequestURI
			if strings.HasPrefix(path, "/api") {
				return true
			}
			return false
		},
		Root:       "",
		Index:      "index.html",
		HTML5:      true,
		Browse:     false,
		IgnoreBase: false,
		Filesystem: http.FS(web.Assets()),
	}))

	api := e.Group("/api")
	{
		if r.components.JournalHandler != nil {
			r.components.JournalHandler.RegisterRoutes(api)
		}
	}

	return nil
}

func (r *TradelogApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("Tradelog Journal Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	ctx := context.Background()

	if r.conf.Journal.SeedDemoData {
		if err := components.JournalService.SeedDemoTrades(ctx); err != nil {
			return fmt.Errorf("failed to seed demo trades: %v", err)
		}
	}

	if !components.ReviewService.Available() {
		logger.Warn("LLM API not configured, AI trade reviews are unavailable")
	}

	if components.tg != nil {
		components.tg.Start()
	}

	if err := components.DigestService.Start(); err != nil {
		return fmt.Errorf("failed to start digest scheduler: %v", err)
	}

	return nil
}
