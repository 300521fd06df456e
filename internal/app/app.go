package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"goal-path/internal/config"
	"goal-path/internal/database"
	"goal-path/internal/localstore"
	"goal-path/internal/motivation"
	"goal-path/internal/services"
	"goal-path/internal/state"
	"goal-path/internal/tasks"
	"goal-path/internal/telegram"
	"goal-path/internal/utils"
	"goal-path/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	web        *web.Server
	services   *services.ServiceManager
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	if err := utils.SetLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("ошибка загрузки часового пояса: %w", err)
	}

	kv, err := localstore.Open(cfg.Storage.LocalPath)
	if err != nil {
		return nil, err
	}
	store, err := state.Load(kv, motivation.Random())
	if err != nil {
		return nil, err
	}

	var (
		db      *database.Database
		backend tasks.Backend = store
	)
	if cfg.Storage.Mode == config.StoreRemote {
		db, err = database.New(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		backend = database.NewRepository(db)
	}

	serviceManager := services.NewServiceManager(backend, store, kv, services.Options{
		StaleTime: cfg.StaleTime,
	})

	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		bot, err = telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, serviceManager)
		if err != nil {
			if db != nil {
				db.Close()
			}
			return nil, err
		}
		serviceManager.SetNotificationSender(bot)
	}

	gin.SetMode(gin.ReleaseMode)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		web:        web.NewServer(serviceManager),
		services:   serviceManager,
		cron:       cron.New(cron.WithLocation(utils.Location())),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if err := app.setupCronJobs(); err != nil {
		cancel()
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	return app, nil
}

func (a *Application) Start() error {
	log.Println("🚀 Запуск приложения...")

	a.rotateMotivation(false)

	if a.bot != nil {
		go a.bot.Start(a.ctx)
	}
	a.cron.Start()
	a.web.Start(":" + a.config.Server.Port)

	if a.bot != nil {
		a.sendWelcomeMessage()
		log.Printf("✅ Приложение запущено. Бот: @%s", a.bot.GetUsername())
	} else {
		log.Println("✅ Приложение запущено без бота")
	}
	log.Printf("🌐 API доступен на порту: %s", a.config.Server.Port)

	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Остановка приложения...")

	a.cancelFunc()
	<-a.cron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.web.Stop(ctx); err != nil {
		log.Printf("⚠️ Ошибка остановки HTTP-сервера: %v", err)
	}

	a.services.Wait()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️ Ошибка закрытия БД: %v", err)
		}
	}

	log.Println("✅ Приложение остановлено")
	return nil
}

func (a *Application) setupCronJobs() error {
	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		// Новая цитата дня в полночь
		{"0 0 * * *", "цитата дня", func() { a.rotateMotivation(true) }},
		// Утреннее планирование
		{"0 7 * * *", "утренний план", func() { a.services.Notification.SendMorningPlan(a.ctx) }},
		// Напоминание о рефлексии, если её ещё не было
		{"0 18 * * *", "вечерняя рефлексия", a.services.Notification.SendEveningReflection},
		// Сводка дня
		{"55 21 * * *", "итоги дня", func() { a.services.Notification.SendDailySummary(a.ctx) }},
	}

	for _, job := range jobs {
		if _, err := a.cron.AddFunc(job.spec, job.fn); err != nil {
			return fmt.Errorf("ошибка планирования задачи %q: %w", job.name, err)
		}
	}
	return nil
}

func (a *Application) rotateMotivation(announce bool) {
	quote, rotated, err := a.services.Motivation.RotateIfNeeded(utils.Now())
	if err != nil {
		log.Printf("⚠️ Ошибка смены цитаты: %v", err)
		return
	}
	if rotated && announce {
		a.services.Notification.SendMotivation(quote)
	}
}

func (a *Application) sendWelcomeMessage() {
	message := `🎯 <b>Goal Path</b>

Ваш трекер успешно запущен!

Сегодня: ` + utils.Today() + `
` + utils.GetTimezoneInfo(utils.Now()) + `

Используйте команды:
/today - главный экран
/plan - план на день
/week - план на неделю
/add - добавить задачу
/goal - ваша цель
/reflect - вечерняя рефлексия
/help - справка по командам`

	a.bot.SendMessageOrLogError(message)
}
