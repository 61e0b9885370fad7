package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ai-studynotes-be/pkg/llm/factory"
	"ai-studynotes-be/pkg/study"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Session  SessionConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Media    MediaConfig
	Timeouts TimeoutConfig
	Otel     TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JwtSecret          string
	NatsURL            string
	RedisURL           string
	StudySetTopic      string // in-process topic between the study service and the history consumer
}

type SessionConfig struct {
	Store string // "memory" or "redis"
	TTL   time.Duration
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	Stability    string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider   string // "gemini", "ollama" or "huggingface"
	LLMModel      string
	OllamaBaseURL string
	StabilityURL  string
	TTSBaseURL    string
	TTSLanguage   string
}

type MediaConfig struct {
	YtDlpPath        string
	FFmpegPath       string
	WhisperPath      string
	WhisperModelPath string
	WhisperLanguage  string
	WorkDir          string
}

type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

type TimeoutConfig struct {
	Download   time.Duration
	Transcribe time.Duration
	Generation time.Duration
	Image      time.Duration
	Narration  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			StudySetTopic:      getEnv("STUDY_SET_TOPIC_NAME", "STUDY_SET_GENERATED"),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", "memory"),
			TTL:   time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Stability:    getEnv("STABILITY_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", factory.ProviderGemini),
			LLMModel:      getEnv("LLM_MODEL", "gemini-1.5-flash-latest"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			StabilityURL:  getEnv("STABILITY_BASE_URL", ""),
			TTSBaseURL:    getEnv("TTS_BASE_URL", ""),
			TTSLanguage:   getEnv("TTS_LANGUAGE", "en"),
		},
		Media: MediaConfig{
			YtDlpPath:        getEnv("YTDLP_PATH", "yt-dlp"),
			FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg"),
			WhisperPath:      getEnv("WHISPER_PATH", "whisper-cli"),
			WhisperModelPath: getEnv("WHISPER_MODEL_PATH", "models/ggml-base.bin"),
			WhisperLanguage:  getEnv("WHISPER_LANGUAGE", "auto"),
			WorkDir:          getEnv("WORK_DIR", os.TempDir()),
		},
		Timeouts: TimeoutConfig{
			Download:   getEnvAsSeconds("DOWNLOAD_TIMEOUT_SECONDS", 600),
			Transcribe: getEnvAsSeconds("TRANSCRIBE_TIMEOUT_SECONDS", 1800),
			Generation: getEnvAsSeconds("GENERATION_TIMEOUT_SECONDS", 120),
			Image:      getEnvAsSeconds("IMAGE_TIMEOUT_SECONDS", 45),
			Narration:  getEnvAsSeconds("NARRATION_TIMEOUT_SECONDS", 120),
		},
		Otel: TelemetryConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRatio: getEnvAsRatio("OTEL_SAMPLE_RATIO", 1),
		},
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var problems []error

	if strings.TrimSpace(c.App.JwtSecret) == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}

	switch strings.ToLower(c.Ai.LLMProvider) {
	case factory.ProviderGemini:
		if strings.TrimSpace(c.Keys.GoogleGemini) == "" {
			problems = append(problems, errors.New("GOOGLE_GEMINI_API_KEY is required for the gemini provider"))
		}
	case factory.ProviderHuggingFace:
		if strings.TrimSpace(c.Keys.HuggingFace) == "" {
			problems = append(problems, errors.New("HUGGINGFACE_API_KEY is required for the huggingface provider"))
		}
	case factory.ProviderOllama:
	default:
		problems = append(problems, fmt.Errorf("unknown LLM_PROVIDER %q", c.Ai.LLMProvider))
	}

	switch c.Session.Store {
	case "memory", "redis":
	default:
		problems = append(problems, fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", study.ErrConfiguration, errors.Join(problems...))
}

// LLMSettings is the LLM factory view of the config.
func (c *Config) LLMSettings() factory.Settings {
	return factory.Settings{
		Provider:          c.Ai.LLMProvider,
		Model:             c.Ai.LLMModel,
		OllamaBaseURL:     c.Ai.OllamaBaseURL,
		GeminiAPIKey:      c.Keys.GoogleGemini,
		HuggingFaceAPIKey: c.Keys.HuggingFace,
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}

// getEnvAsRatio clamps the value to [0, 1]; unparsable values use the fallback.
func getEnvAsRatio(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return min(max(v, 0), 1)
}
