package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port          string
	DSN           string
	SweepInterval time.Duration
	PingInterval  time.Duration
	Env           string
}

func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		Port:          getEnv("PORT", "8080"),
		DSN:           mustEnv("DB_DSN"),
		SweepInterval: secondsEnv("SWEEP_INTERVAL_SECONDS", 30),
		PingInterval:  secondsEnv("PING_INTERVAL_SECONDS", 25),
		Env:           getEnv("ENV", "dev"),
	}
	logrus.Infof("config loaded: env=%s port=%s sweep=%s ping=%s", c.Env, c.Port, c.SweepInterval, c.PingInterval)
	return c
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" { return v }
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" { logrus.Fatalf("missing env: %s", k) }
	return v
}

func secondsEnv(k string, def int) time.Duration {
	n, err := strconv.Atoi(getEnv(k, strconv.Itoa(def)))
	if err != nil || n <= 0 { n = def }
	return time.Duration(n) * time.Second
}
