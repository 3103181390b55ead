package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"valet/internal/config"
	"valet/internal/interpret"
	"valet/internal/ipc"
	"valet/internal/notify"
	"valet/internal/proxy"
	"valet/internal/reminder"
	"valet/internal/session"
	"valet/internal/tools"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("Bad configuration", "err", err)
		os.Exit(1)
	}

	httpClient := proxy.NewDirectClient()
	if cfg.SocksProxy != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(cfg.SocksProxy)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	store := reminder.NewStore()
	queue := reminder.NewQueue()
	defer queue.Stop()

	registry := buildRegistry(cfg, httpClient, store, queue)
	log.Debug("Loaded tools", "tools", registry.Names())

	in := interpret.New(registry, interpretOptions(cfg))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logSpeaker := func(text string) error {
		log.Info("Speak", "text", text)
		return nil
	}

	if err := ipc.StartServer(*socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "say":
			in.Handle(ctx, msg.Text, interpret.SpeakerFunc(logSpeaker))
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	bus, err := session.Dial(cfg.BusURL)
	if err != nil {
		log.Error("Failed to connect to session bus", "url", cfg.BusURL, "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful")

	go func() {
		<-ctx.Done()
		bus.Close()
	}()

	bus.Run(ctx, func(ctx context.Context, utterance string, speak func(string) error) {
		in.Handle(ctx, utterance, interpret.SpeakerFunc(speak))
	})

	log.Info("Shutting down")
}

func buildRegistry(cfg config.Config, client *http.Client, store *reminder.Store, queue *reminder.Queue) *tools.Registry {
	registry := tools.NewRegistry()

	registry.Register(tools.NewOpenApp())
	registry.Register(tools.NewWeather(client))
	registry.Register(tools.NewSearch(client))
	registry.Register(tools.NewEmail(cfg.SMTPHost, cfg.SMTPPort, cfg.GmailUser, cfg.GmailPassword))
	registry.Register(tools.NewGreet(cfg.User, store))

	// Exactly one scheduling strategy per process.
	if cfg.Scheduler == config.SchedulerLocal {
		registry.Register(tools.NewSetReminder(store, queue, func(task string) {
			if err := notify.Desktop("Reminder", task); err != nil {
				log.Warn("Desktop notification failed", "task", task, "err", err)
			}
			if err := notify.Chime(cfg.ChimePath); err != nil {
				log.Warn("Chime failed", "err", err)
			}
		}))
	} else {
		registry.Register(tools.NewCalendar(tools.CalendarConfig{
			CredentialsFile: cfg.CredentialsFile,
			TokenFile:       cfg.TokenFile,
			CalendarID:      cfg.CalendarID,
			TimeZone:        cfg.CalendarTZ,
			Client:          client,
		}, store))
	}

	return registry
}

func interpretOptions(cfg config.Config) interpret.Options {
	opts := interpret.Options{DefaultCity: cfg.DefaultCity}
	if cfg.Scheduler == config.SchedulerLocal {
		opts.ScheduleAck = "Got it! Setting that reminder."
		opts.ScheduleOK = "Reminder set, Sir."
	}
	return opts
}
