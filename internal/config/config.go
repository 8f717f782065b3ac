package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/workflow"
)

var (
	setRe   = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe  = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	colorRe = regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
)

type Config struct {
	// Booking hand-off
	OutboxFile      string
	WebhookURL      string
	WebhookTimeout  time.Duration
	SubmitAttempts  int
	RetryBackoff    time.Duration
	AwaitSubmission bool
	ResetPolicy     workflow.ResetPolicy

	// Display settings
	WeekStartDay time.Weekday
	DateFormat   string
	CatalogFile  string
	Currency     string

	// Logging
	LogFile  string
	LogLevel string

	// UI settings
	Colors      map[string]string
	KeyBindings map[string]string // key -> action
	RefreshRate time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		OutboxFile:     filepath.Join(dataDir(), "bookings.jsonl"),
		WebhookTimeout: 10 * time.Second,
		SubmitAttempts: 3,
		RetryBackoff:   500 * time.Millisecond,
		ResetPolicy:    workflow.ResetNone,

		WeekStartDay: time.Sunday,
		DateFormat:   calendar.LongLayout,

		LogLevel: "info",

		Colors: map[string]string{
			"header":   "13",
			"today":    "11",
			"selected": "15",
			"cursor":   "12",
			"past":     "8",
			"error":    "9",
			"accent":   "10",
		},

		KeyBindings: map[string]string{
			"<":      "prev_month",
			">":      "next_month",
			"h":      "left",
			"l":      "right",
			"k":      "up",
			"j":      "down",
			"left":   "left",
			"right":  "right",
			"up":     "up",
			"down":   "down",
			"enter":  "select",
			" ":      "select",
			"b":      "book",
			"g":      "goto",
			"t":      "today",
			"?":      "help",
			"q":      "quit",
			"ctrl+c": "quit",
		},

		RefreshRate: 30 * time.Second,
	}
}

// LoadConfig reads the first rc file found in the usual locations. Missing
// files leave the defaults in place.
func LoadConfig() (*Config, error) {
	home, _ := os.UserHomeDir()

	configPaths := []string{
		os.Getenv("SLOTBOOK_CONFIG"),
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configPaths = append(configPaths, filepath.Join(xdg, "slotbook", "slotbookrc"))
	}
	if home != "" {
		configPaths = append(configPaths,
			filepath.Join(home, ".config", "slotbook", "slotbookrc"),
			filepath.Join(home, ".slotbookrc"),
		)
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile applies one rc file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.loadFromFile(path); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		if err := c.parseLine(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

func (c *Config) parseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		key := matches[1]
		if key == "space" {
			key = " "
		}
		c.KeyBindings[key] = matches[2]
		return nil
	}

	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		c.Colors[matches[1]] = matches[2]
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	value = strings.Trim(strings.TrimSpace(value), `"'`)

	switch name {
	case "outbox_file":
		c.OutboxFile = expandHome(value)

	case "webhook_url":
		c.WebhookURL = value

	case "webhook_timeout":
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid webhook_timeout: %s", value)
		}
		c.WebhookTimeout = d

	case "submit_attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid submit_attempts: %s", value)
		}
		c.SubmitAttempts = n

	case "retry_backoff":
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid retry_backoff: %s", value)
		}
		c.RetryBackoff = d

	case "await_submission":
		c.AwaitSubmission = parseBool(value)

	case "reset_policy":
		p, err := workflow.ParseResetPolicy(value)
		if err != nil {
			return err
		}
		c.ResetPolicy = p

	case "week_start_day":
		switch strings.ToLower(value) {
		case "sunday", "sun", "0":
			c.WeekStartDay = time.Sunday
		case "monday", "mon", "1":
			c.WeekStartDay = time.Monday
		default:
			return fmt.Errorf("invalid week_start_day: %s", value)
		}

	case "date_format":
		c.DateFormat = value

	case "catalog_file":
		c.CatalogFile = expandHome(value)

	case "currency":
		c.Currency = value

	case "log_file":
		c.LogFile = expandHome(value)

	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error", "off":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level: %s", value)
		}

	case "refresh_rate":
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid refresh_rate: %s", value)
		}
		c.RefreshRate = d

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

// Action returns the action bound to key, if any.
func (c *Config) Action(key string) string {
	return c.KeyBindings[key]
}

// RetryPolicy assembles the submission retry settings.
func (c *Config) RetryPolicy() workflow.RetryPolicy {
	return workflow.RetryPolicy{
		Attempts: c.SubmitAttempts,
		Timeout:  c.WebhookTimeout,
		Backoff:  c.RetryBackoff,
	}
}

// parseDuration accepts Go durations or a bare number of seconds.
func parseDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "slotbook")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "slotbook")
}
