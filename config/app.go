package config

import "sync"

// AppConfig is the process-wide application config, set once by LoadAppConfig.
var AppConfig *Config

var once sync.Once

type Config struct {
	AppName string
	Port    string
}

// LoadAppConfig fills AppConfig from the environment. Safe to call from
// multiple entry points; only the first call reads.
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName: GetEnv("APP_NAME", "stockops"),
			Port:    GetEnv("PORT", "8080"),
		}
	})
}
