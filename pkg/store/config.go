package store

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultPath          = "~/.gracelog.db"
	DefaultLogLevel      = "info"
	DefaultAssistModel   = "gemini-3-flash-preview"
	DefaultAssistTimeout = 60 * time.Second
)

type Config interface {
	BasePath() string
	LogLevel() string
	AssistModel() string
	AssistAPIKey() string
	AssistTimeout() time.Duration
}

// LoadConfig reads .gracelog.yaml from $GRACELOG_CONFIG_PATH or the working
// directory, then GRACELOG_* environment variables. A .env file next to the
// process is loaded first. A missing config file is fine.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("assist.model", DefaultAssistModel)
	v.SetDefault("assist.apiKey", "")
	v.SetDefault("assist.timeout", DefaultAssistTimeout)
	v.SetConfigName(".gracelog") // .yaml is implicit
	v.SetEnvPrefix("GRACELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("GRACELOG_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}

	apiKey := v.GetString("assist.apiKey")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	timeout := v.GetDuration("assist.timeout")
	if timeout <= 0 {
		timeout = DefaultAssistTimeout
	}

	return &fileConfig{
		Path:    path,
		Level:   v.GetString("log.level"),
		Model:   v.GetString("assist.model"),
		APIKey:  apiKey,
		Timeout: timeout,
	}, nil
}

type fileConfig struct {
	Path    string        `json:"path"`
	Level   string        `json:"logLevel"`
	Model   string        `json:"assistModel"`
	APIKey  string        `json:"-"`
	Timeout time.Duration `json:"assistTimeout"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}

func (f *fileConfig) AssistModel() string {
	return f.Model
}

func (f *fileConfig) AssistAPIKey() string {
	return f.APIKey
}

func (f *fileConfig) AssistTimeout() time.Duration {
	return f.Timeout
}
