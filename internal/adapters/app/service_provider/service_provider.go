package service_provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"AnonAskBot/internal/adapters/config"
	tgcontroller "AnonAskBot/internal/adapters/controller/telegram"
	"AnonAskBot/internal/adapters/repository/postgres"
	"AnonAskBot/internal/adapters/repository/redisstate"
	"AnonAskBot/internal/domain/service/access"
	answersvc "AnonAskBot/internal/domain/service/answer"
	"AnonAskBot/internal/domain/service/moderation"
	"AnonAskBot/internal/domain/service/notify"
	"AnonAskBot/internal/domain/service/profile"
	questionsvc "AnonAskBot/internal/domain/service/question"
	sessionsvc "AnonAskBot/internal/domain/service/session"
	subscriptionsvc "AnonAskBot/internal/domain/service/subscription"
	votesvc "AnonAskBot/internal/domain/service/vote"
)

type ServiceProvider struct {
	config config.Config
	log    *zap.SugaredLogger

	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	botRunner *tgcontroller.Runner
}

func New() (*ServiceProvider, error) {
	sp := &ServiceProvider{}
	if err := sp.init(); err != nil {
		return nil, err
	}
	return sp, nil
}

func (sp *ServiceProvider) BotRunner() *tgcontroller.Runner {
	return sp.botRunner
}

func (sp *ServiceProvider) Close() {
	if sp.pgPool != nil {
		sp.pgPool.Close()
	}
	if sp.redisClient != nil {
		_ = sp.redisClient.Close()
	}
	if sp.log != nil {
		_ = sp.log.Sync()
	}
}

func (sp *ServiceProvider) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sp.config = cfg

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	sp.log = logger

	ctx := context.Background()

	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if err := pgPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	sp.pgPool = pgPool

	if err := postgres.Migrate(ctx, pgPool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	sp.redisClient = redisClient

	userRepo := postgres.NewUserRepo(pgPool)
	questionRepo := postgres.NewQuestionRepo(pgPool)
	answerRepo := postgres.NewAnswerRepo(pgPool)
	voteRepo := postgres.NewVoteRepo(pgPool)
	subscriptionRepo := postgres.NewSubscriptionRepo(pgPool)
	notificationRepo := postgres.NewNotificationRepo(pgPool)
	sessionRepo := redisstate.NewSessionRepo(redisClient)

	outbox := tgcontroller.NewOutbox(cfg.ChannelID, cfg.OperatorID)

	accessService := access.New(cfg.OperatorID)
	moderationService := moderation.New(cfg.BannedWords)
	sessionService := sessionsvc.New(sessionRepo)
	subscriptionService := subscriptionsvc.New(subscriptionRepo)
	notifyService := notify.New(notificationRepo, subscriptionRepo, outbox, logger)
	questionService := questionsvc.New(questionRepo, userRepo, moderationService, accessService, notifyService, outbox, logger)
	answerService := answersvc.New(answerRepo, questionRepo, userRepo, subscriptionRepo, moderationService, notifyService, outbox, logger)
	voteService := votesvc.New(voteRepo, answerRepo, notifyService, logger)
	profileService := profile.New(userRepo, questionRepo, answerRepo, accessService)

	botRunner, err := tgcontroller.New(cfg.BotToken, outbox, tgcontroller.Deps{
		Users:    userRepo,
		Access:   accessService,
		Mod:      moderationService,
		Sessions: sessionService,
		Question: questionService,
		Answer:   answerService,
		Vote:     voteService,
		Subs:     subscriptionService,
		Notify:   notifyService,
		Profile:  profileService,
		Log:      logger,
	})
	if err != nil {
		return fmt.Errorf("create telegram controller: %w", err)
	}
	sp.botRunner = botRunner

	logger.Infow("service provider initialized")
	return nil
}

func newLogger(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
