package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	authrepo "github.com/itsprade/good-morning/internal/auth/repository"
	authusecase "github.com/itsprade/good-morning/internal/auth/usecase"
	calendardomain "github.com/itsprade/good-morning/internal/calendar/domain"
	calendarrepo "github.com/itsprade/good-morning/internal/calendar/repository"
	calendarusecase "github.com/itsprade/good-morning/internal/calendar/usecase"
	dashboardusecase "github.com/itsprade/good-morning/internal/dashboard/usecase"
	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	emailrepo "github.com/itsprade/good-morning/internal/email/repository"
	emailusecase "github.com/itsprade/good-morning/internal/email/usecase"
	"github.com/itsprade/good-morning/internal/notification"
	notifdomain "github.com/itsprade/good-morning/internal/notification/domain"
	notifrepo "github.com/itsprade/good-morning/internal/notification/repository"
	summarydomain "github.com/itsprade/good-morning/internal/summary/domain"
	summaryrepo "github.com/itsprade/good-morning/internal/summary/repository"
	summaryusecase "github.com/itsprade/good-morning/internal/summary/usecase"
	syncscheduler "github.com/itsprade/good-morning/internal/syncer/scheduler"
	syncusecase "github.com/itsprade/good-morning/internal/syncer/usecase"
	taskdomain "github.com/itsprade/good-morning/internal/task/domain"
	taskrepo "github.com/itsprade/good-morning/internal/task/repository"
	taskscheduler "github.com/itsprade/good-morning/internal/task/scheduler"
	taskusecase "github.com/itsprade/good-morning/internal/task/usecase"
	"github.com/itsprade/good-morning/pkg/ai"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/clock"
	"github.com/itsprade/good-morning/pkg/config"
	"github.com/itsprade/good-morning/pkg/database"
	"github.com/itsprade/good-morning/pkg/fcm"
	"github.com/itsprade/good-morning/pkg/gcal"
	"github.com/itsprade/good-morning/pkg/gmail"
	"github.com/itsprade/good-morning/pkg/googleauth"
	"github.com/itsprade/good-morning/pkg/logger"
	"github.com/itsprade/good-morning/pkg/syncguard"
)

// App holds every wired component of the service.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Clock  clock.Clock

	Users        authrepo.UserRepository
	Tasks        taskrepo.TaskRepository
	Actions      emailrepo.EmailActionRepository
	Events       calendarrepo.EventRepository
	Summaries    summaryrepo.SummaryRepository
	DeviceTokens notifrepo.DeviceTokenRepository

	AI          *ai.RuntimeSettings
	Ollama      *ai.OllamaService
	Auth        authusecase.AuthUsecase
	Task        taskusecase.TaskUsecase
	EmailAction emailusecase.EmailActionUsecase
	Calendar    calendarusecase.CalendarUsecase
	Summary     summaryusecase.SummaryUsecase
	Dashboard   dashboardusecase.DashboardUsecase
	Syncer      *syncusecase.Syncer
	Notifier    *notification.Notifier

	redis  *redis.Client
	logger *zap.Logger
}

// NewApp opens the configured database and wires the application on it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return Build(ctx, cfg, db)
}

// Build migrates db and wires every component on top of it.
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	log := logger.Named("app")

	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&taskdomain.Task{},
		&emaildomain.EmailAction{},
		&calendardomain.Event{},
		&summarydomain.DailySummary{},
		&notifdomain.DeviceToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clk := clock.New(loc)

	a := &App{
		Config:       cfg,
		DB:           db,
		Clock:        clk,
		Users:        authrepo.NewUserRepository(db),
		Tasks:        taskrepo.NewGormTaskRepository(db),
		Actions:      emailrepo.NewEmailActionRepository(db),
		Events:       calendarrepo.NewEventRepository(db),
		Summaries:    summaryrepo.NewSummaryRepository(db),
		DeviceTokens: notifrepo.NewDeviceTokenRepository(db),
		logger:       log,
	}

	a.AI = ai.NewRuntimeSettings(cfg.OllamaBaseURL, cfg.OllamaModel)
	a.Ollama = ai.NewOllamaServiceWithGetters(a.AI.OllamaBaseURL, a.AI.OllamaModel)
	generator, err := ai.NewTextGenerator(ai.Config{
		Provider:     ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey: cfg.GeminiApiKey,
		GeminiModel:  cfg.GeminiModel,
		Settings:     a.AI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}
	assistant := ai.NewAssistant(generator, clk.Now)
	log.Info("AI service initialized", zap.String("provider", generator.Name()))

	google := googleauth.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret)
	gmailService := gmail.NewService(google)
	calendarService := gcal.NewService(google)

	credentials := authusecase.NewCredentialProvider(a.Users)
	a.Auth = authusecase.NewAuthUsecase(a.Users, cfg)
	a.Task = taskusecase.NewTaskUsecase(a.Tasks, clk)
	a.Summary = summaryusecase.NewSummaryUsecase(a.Summaries, a.Events, a.Actions, a.Tasks, assistant, clk)
	a.Calendar = calendarusecase.NewCalendarUsecase(credentials, calendarService, a.Events, a.Summary, clk)

	fetcher := emailusecase.NewMailFetcher(credentials, gmailService, cfg.Mail, clk)
	pipeline := emailusecase.NewPipeline(assistant, a.Actions, emailusecase.DedupPolicy{PrefixLength: cfg.DedupPrefixLength})
	a.EmailAction = emailusecase.NewEmailActionUsecase(fetcher, pipeline, a.Actions, a.Tasks, clk, cfg.ReminderHour)
	a.Dashboard = dashboardusecase.NewDashboardUsecase(a.Summary, a.Calendar, a.EmailAction, a.Task, clk)

	var sender notification.Sender
	if cfg.FirebaseCredentials != "" {
		client, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Warn("failed to initialize FCM client, push notifications disabled", zap.Error(err))
		} else {
			sender = client
		}
	} else {
		log.Info("no Firebase credentials configured, push notifications disabled")
	}
	a.Notifier = notification.NewNotifier(a.DeviceTokens, sender)

	var guard syncguard.Guard = syncguard.Noop{}
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		guard = syncguard.NewRedisGuard(a.redis, cfg.Sync.LockTTL, logger.Named("syncguard"))
		log.Info("sync guard backed by redis", zap.String("addr", cfg.Redis.Addr))
	}

	a.Syncer = syncusecase.NewSyncer(syncusecase.Deps{
		Users:       a.Users,
		Credentials: credentials,
		Mail:        a.EmailAction,
		Calendar:    a.Calendar,
		Watcher:     fetcher,
		Briefing:    a.Summary,
		Notifier:    a.Notifier,
		Guard:       guard,
		Clock:       clk,
	}, cfg.Sync, cfg.GooglePubSubTopic)

	return a, nil
}

// ReminderScheduler returns the task reminder loop, or nil when pushes are off.
func (a *App) ReminderScheduler() *taskscheduler.TaskReminderScheduler {
	if !a.Notifier.Enabled() {
		return nil
	}
	return taskscheduler.NewTaskReminderScheduler(a.Tasks, a.Notifier)
}

// SyncScheduler returns the in-process daily sync, or nil when DAILY_SYNC_AT is unset.
func (a *App) SyncScheduler() (*syncscheduler.Scheduler, error) {
	if a.Config.Sync.DailyAt == "" {
		return nil, nil
	}
	s := syncscheduler.NewScheduler(a.Clock.Location(), a.Syncer)
	if _, err := s.ScheduleDaily(a.Config.Sync.DailyAt); err != nil {
		return nil, err
	}
	return s, nil
}

// PubSubListener returns the Gmail push listener, or nil when no project is configured.
func (a *App) PubSubListener(ctx context.Context) (*notification.PubSubListener, error) {
	if a.Config.GoogleProjectID == "" {
		a.logger.Warn("GOOGLE_PROJECT_ID not configured, Gmail push disabled")
		return nil, nil
	}
	return notification.NewPubSubListener(ctx,
		a.Config.GoogleProjectID,
		shortTopicName(a.Config.GooglePubSubTopic),
		a.Config.GoogleCredentials,
		a.Users, a.Syncer, a.Notifier)
}

// ResetUser removes the synced and derived data of a user so onboarding runs
// again. The account and its Google credential are kept.
func (a *App) ResetUser(email string) (*authdomain.User, error) {
	user, err := a.Users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name string
			run  func(string) error
		}{
			{"events", calendarrepo.NewEventRepository(tx).DeleteByUserID},
			{"email actions", emailrepo.NewEmailActionRepository(tx).DeleteByUserID},
			{"tasks", taskrepo.NewGormTaskRepository(tx).DeleteByUserID},
			{"summaries", summaryrepo.NewSummaryRepository(tx).DeleteByUserID},
			{"sync state", authrepo.NewUserRepository(tx).ClearLastSynced},
		}
		for _, step := range steps {
			if err := step.run(user.ID); err != nil {
				return fmt.Errorf("failed to reset %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("user reset", zap.String("user_id", user.ID), zap.String("email", email))
	return user, nil
}

// Close releases the database and redis connections.
func (a *App) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// shortTopicName strips "projects/<id>/topics/" from a full topic name.
func shortTopicName(topic string) string {
	if parts := strings.Split(topic, "/"); len(parts) > 1 {
		topic = parts[len(parts)-1]
	}
	if topic == "" {
		topic = "gmail-updates"
	}
	return topic
}
