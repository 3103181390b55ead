package config

import (
	"fmt"
	"os"
	"strconv"
)

// Scheduling strategies. Exactly one reminder tool is registered per process.
const (
	SchedulerCalendar = "calendar"
	SchedulerLocal    = "local"
)

type Config struct {
	BusURL     string
	SocksProxy string

	User        string
	DefaultCity string
	Scheduler   string

	SMTPHost      string
	SMTPPort      int
	GmailUser     string
	GmailPassword string

	CredentialsFile string
	TokenFile       string
	CalendarID      string
	CalendarTZ      string

	ChimePath string
}

func Load() Config {
	return Config{
		BusURL:     getenv("BUS_URL", "ws://localhost:8092/ws"),
		SocksProxy: os.Getenv("SOCKS_PROXY"),

		User:        getenv("VALET_USER", "User"),
		DefaultCity: getenv("DEFAULT_CITY", "Manila"),
		Scheduler:   getenv("SCHEDULER", SchedulerCalendar),

		SMTPHost:      getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getenvInt("SMTP_PORT", 587),
		GmailUser:     os.Getenv("GMAIL_USER"),
		GmailPassword: os.Getenv("GMAIL_APP_PASSWORD"),

		CredentialsFile: getenv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		TokenFile:       getenv("GOOGLE_TOKEN_FILE", "token.json"),
		CalendarID:      getenv("CALENDAR_ID", "primary"),
		CalendarTZ:      getenv("CALENDAR_TZ", "Asia/Manila"),

		ChimePath: getenv("CHIME_PATH", "beep.mp3"),
	}
}

func (c Config) Validate() error {
	if c.BusURL == "" {
		return fmt.Errorf("BUS_URL not set")
	}
	if c.Scheduler != SchedulerCalendar && c.Scheduler != SchedulerLocal {
		return fmt.Errorf("unknown SCHEDULER %q", c.Scheduler)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
