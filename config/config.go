package config

import (
	"os"

	"github.com/3lvia/fault/internal/runtime"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     runtime.Env
	ApiAddr string
}

func New() (*Config, error) {
	_ = godotenv.Load(".env")

	return &Config{
		Env:     runtime.Env(get("ENVIRONMENT", string(runtime.Production))),
		ApiAddr: get("API_ADDR", ":8080"),
	}, nil
}

func get(name string, alt string) string {
	v, ok := os.LookupEnv(name)
	if !ok {
		return alt
	}
	return v
}
