package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-MeetingService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server       ServerConfig        `toml:"server"`
	Database     DatabaseConfig      `toml:"database"`
	Logs         LogsConfig          `toml:"logs"`
	Metrics      MetricsConfig       `toml:"metrics"`
	Ledger       LedgerConfig        `toml:"ledger"`
	Calendar     CalendarConfig      `toml:"calendar"`
	SMTP         SMTPConfig          `toml:"smtp"`
	Booking      BookingConfig       `toml:"booking"`
	MeetingTypes []MeetingTypeConfig `toml:"meeting_types"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к Postgres
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LedgerConfig настройки клиента леджера
type LedgerConfig struct {
	RPCURL          string `toml:"rpc_url"`
	RecipientWallet string `toml:"recipient_wallet"` // Адрес кошелька для приема платежей
	Finality        string `toml:"finality"`         // Требуемая глубина подтверждения
	Label           string `toml:"label"`            // Подпись в платежном запросе
	Timeout         int    `toml:"timeout"`          // секунды
}

// CalendarConfig настройки клиента внешнего календаря
type CalendarConfig struct {
	BaseURL    string `toml:"base_url"`
	CalendarID string `toml:"calendar_id"`
	APIToken   string `toml:"api_token"`
	Timeout    int    `toml:"timeout"` // секунды
}

// SMTPConfig настройки отправки почтовых уведомлений
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	Timeout  int    `toml:"timeout"` // секунды
}

// DaySchedule рабочие часы на один день недели
// Пустые open/close означают выходной
type DaySchedule struct {
	Open  string `toml:"open"`  // "10:00"
	Close string `toml:"close"` // "18:00"
}

// IsOpen возвращает true, если на этот день заданы рабочие часы
func (d DaySchedule) IsOpen() bool {
	return d.Open != "" && d.Close != ""
}

// BookingConfig настройки расписания бронирований
type BookingConfig struct {
	Timezone           string      `toml:"timezone"`
	DefaultSlotMinutes int         `toml:"default_slot_minutes"`
	Monday             DaySchedule `toml:"monday"`
	Tuesday            DaySchedule `toml:"tuesday"`
	Wednesday          DaySchedule `toml:"wednesday"`
	Thursday           DaySchedule `toml:"thursday"`
	Friday             DaySchedule `toml:"friday"`
	Saturday           DaySchedule `toml:"saturday"`
	Sunday             DaySchedule `toml:"sunday"`
}

// HoursFor возвращает рабочие часы на указанный день недели
func (b *BookingConfig) HoursFor(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return b.Monday
	case time.Tuesday:
		return b.Tuesday
	case time.Wednesday:
		return b.Wednesday
	case time.Thursday:
		return b.Thursday
	case time.Friday:
		return b.Friday
	case time.Saturday:
		return b.Saturday
	case time.Sunday:
		return b.Sunday
	default:
		return DaySchedule{}
	}
}

// MeetingTypeConfig описание типа встречи в config.toml
type MeetingTypeConfig struct {
	Name            string  `toml:"name"`
	DurationMinutes int     `toml:"duration_minutes"`
	Price           float64 `toml:"price"`
	PriceUSD        float64 `toml:"price_usd"`
	RequiresPayment bool    `toml:"requires_payment"`
	Description     string  `toml:"description"`
}

// ToDomain конвертирует в доменную модель
func (m *MeetingTypeConfig) ToDomain() domain.MeetingTypeConfig {
	return domain.MeetingTypeConfig{
		Name:            m.Name,
		DurationMinutes: m.DurationMinutes,
		Price:           m.Price,
		PriceUSD:        m.PriceUSD,
		RequiresPayment: m.RequiresPayment,
		Description:     m.Description,
	}
}

// Load загружает и валидирует конфигурацию из toml-файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// DomainMeetingTypes возвращает каталог типов встреч, индексированный по имени
func (c *Config) DomainMeetingTypes() map[string]domain.MeetingTypeConfig {
	result := make(map[string]domain.MeetingTypeConfig, len(c.MeetingTypes))
	for i := range c.MeetingTypes {
		mt := c.MeetingTypes[i].ToDomain()
		result[mt.Name] = mt
	}
	return result
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Ledger.Finality == "" {
		cfg.Ledger.Finality = domain.DefaultFinality
	}
	if cfg.Booking.DefaultSlotMinutes == 0 {
		cfg.Booking.DefaultSlotMinutes = domain.DefaultSlotDurationMinutes
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "UTC"
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if cfg.Ledger.RPCURL == "" {
		return fmt.Errorf("ledger.rpc_url is required")
	}
	if cfg.Ledger.RecipientWallet == "" {
		return fmt.Errorf("ledger.recipient_wallet is required")
	}
	if cfg.Calendar.BaseURL == "" {
		return fmt.Errorf("calendar.base_url is required")
	}

	if _, err := time.LoadLocation(cfg.Booking.Timezone); err != nil {
		return fmt.Errorf("booking.timezone %q is invalid: %w", cfg.Booking.Timezone, err)
	}

	seen := make(map[string]struct{}, len(cfg.MeetingTypes))
	for _, mt := range cfg.MeetingTypes {
		name := strings.TrimSpace(mt.Name)
		if name == "" {
			return fmt.Errorf("meeting_types: name is required")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("meeting_types: duplicate name %q", name)
		}
		seen[name] = struct{}{}

		if mt.DurationMinutes < domain.MinSlotDurationMinutes || mt.DurationMinutes > domain.MaxSlotDurationMinutes {
			return fmt.Errorf("meeting_types: %q duration %d out of range [%d, %d]",
				name, mt.DurationMinutes, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
		if mt.RequiresPayment && mt.Price <= 0 {
			return fmt.Errorf("meeting_types: %q requires payment but price is not positive", name)
		}
	}

	return nil
}
