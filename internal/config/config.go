package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Serial device
	SerialPort  string        // e.g. "/dev/ttyUSB0" or "COM3"
	BaudRate    int           // e.g. 9600
	ReadTimeout time.Duration // bounds individual read syscalls only

	// How often the background reader polls the device for bytes.
	PollInterval time.Duration

	// DB
	DBPath string // e.g. "./data/stockgate.db"

	// UID seeded as the Admin user on first startup if absent.
	DefaultAdminUID string

	// Diagnostics go to a file; the TUI owns the terminal.
	LogPath string
}

func FromEnv() Config {
	// Optional .env next to the binary; a missing file is fine.
	_ = godotenv.Load()

	pollMs := getenvInt("STOCKGATE_POLL_INTERVAL_MS", 10)
	if pollMs == 0 {
		pollMs = 10
	}

	return Config{
		SerialPort:  getenvDefault("STOCKGATE_SERIAL_PORT", "/dev/ttyUSB0"),
		BaudRate:    getenvInt("STOCKGATE_BAUD_RATE", 9600),
		ReadTimeout: time.Second,

		PollInterval: time.Duration(pollMs) * time.Millisecond,

		DBPath: getenvDefault("STOCKGATE_DB_PATH", "./data/stockgate.db"),

		DefaultAdminUID: getenvDefault("STOCKGATE_ADMIN_UID", "63:19:CE:12"),

		LogPath: getenvDefault("STOCKGATE_LOG_PATH", "./data/stockgate.log"),
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
