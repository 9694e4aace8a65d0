// Package config reads each unit's settings from the environment, once at
// startup. The only validation is a presence check; a bad value surfaces when
// the downstream call fails.
package config

import (
	"fmt"
	"os"
)

// Login holds the settings for the login pipeline.
type Login struct {
	Username string
	Password string
	LoginURL string
}

// Verify holds the settings for the verification conversation pipeline.
type Verify struct {
	Endpoint string
}

// Calibrate holds the settings for the calibration report pipeline.
type Calibrate struct {
	HQBaseURL      string
	APIKey         string
	ReportEndpoint string
}

// Server holds the shared settings of the two chat services.
type Server struct {
	Port         string
	Model        string
	SystemPrompt string
}

// Auth holds the assistant service's token-minting credentials.
type Auth struct {
	JWTSecret string
	APIKey    string
	APISecret string
}

// Trace holds the observability backend settings.
type Trace struct {
	Endpoint  string
	PublicKey string
	SecretKey string
}

func LoadLogin() (Login, error) {
	cfg := Login{
		Username: os.Getenv("LOGIN_USERNAME"),
		Password: os.Getenv("LOGIN_PASSWORD"),
		LoginURL: os.Getenv("LOGIN_URL"),
	}
	if err := require(map[string]string{
		"LOGIN_USERNAME": cfg.Username,
		"LOGIN_PASSWORD": cfg.Password,
		"LOGIN_URL":      cfg.LoginURL,
	}); err != nil {
		return Login{}, err
	}
	return cfg, nil
}

func LoadVerify() (Verify, error) {
	cfg := Verify{Endpoint: os.Getenv("VERIFY_ENDPOINT")}
	if err := require(map[string]string{"VERIFY_ENDPOINT": cfg.Endpoint}); err != nil {
		return Verify{}, err
	}
	return cfg, nil
}

func LoadCalibrate() (Calibrate, error) {
	cfg := Calibrate{
		HQBaseURL:      os.Getenv("AGENT_HQ"),
		APIKey:         os.Getenv("POLIGON_KEY"),
		ReportEndpoint: os.Getenv("REPORT_ENDPOINT"),
	}
	if err := require(map[string]string{
		"AGENT_HQ":        cfg.HQBaseURL,
		"POLIGON_KEY":     cfg.APIKey,
		"REPORT_ENDPOINT": cfg.ReportEndpoint,
	}); err != nil {
		return Calibrate{}, err
	}
	return cfg, nil
}

func LoadServer(defaultPort string) Server {
	cfg := Server{
		Port:         os.Getenv("PORT"),
		Model:        os.Getenv("CHAT_MODEL"),
		SystemPrompt: os.Getenv("SYSTEM_PROMPT"),
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-001"
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = "You are a helpful assistant."
	}
	return cfg
}

func LoadAuth() (Auth, error) {
	cfg := Auth{
		JWTSecret: os.Getenv("JWT_SECRET"),
		APIKey:    os.Getenv("OBSERVER_API_KEY"),
		APISecret: os.Getenv("OBSERVER_API_SECRET"),
	}
	if err := require(map[string]string{
		"JWT_SECRET":          cfg.JWTSecret,
		"OBSERVER_API_KEY":    cfg.APIKey,
		"OBSERVER_API_SECRET": cfg.APISecret,
	}); err != nil {
		return Auth{}, err
	}
	return cfg, nil
}

func LoadTrace() (Trace, error) {
	cfg := Trace{
		Endpoint:  os.Getenv("TRACE_ENDPOINT"),
		PublicKey: os.Getenv("TRACE_PUBLIC_KEY"),
		SecretKey: os.Getenv("TRACE_SECRET_KEY"),
	}
	if err := require(map[string]string{
		"TRACE_ENDPOINT":   cfg.Endpoint,
		"TRACE_PUBLIC_KEY": cfg.PublicKey,
		"TRACE_SECRET_KEY": cfg.SecretKey,
	}); err != nil {
		return Trace{}, err
	}
	return cfg, nil
}

func require(vars map[string]string) error {
	for name, value := range vars {
		if value == "" {
			return fmt.Errorf("missing required environment variable %s", name)
		}
	}
	return nil
}
