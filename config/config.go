package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/hjson/hjson-go/v4"

	"github.com/o0olele/navmesh-go/builder"
	"github.com/o0olele/navmesh-go/logger"
	"github.com/o0olele/navmesh-go/query"
)

var (
	mu   sync.RWMutex
	CONF = DefaultConfig()
)

// Config navmesh 服务配置
type Config struct {
	Logger Logger `json:"logger"`
	Build  Build  `json:"build"`
	Query  Query  `json:"query"`
	Server Server `json:"server"`
	Store  Store  `json:"store"`
}

// Logger 日志配置
type Logger struct {
	AppName      string `json:"appName"`
	Level        string `json:"level"`
	TrackLine    bool   `json:"trackLine"`
	EnableFile   bool   `json:"enableFile"`
	DisableColor bool   `json:"disableColor"`
	EnableJson   bool   `json:"enableJson"`
}

// Build 构建配置
type Build struct {
	Precision        int  `json:"precision"`
	AllowNonManifold bool `json:"allowNonManifold"`
	Gzip             bool `json:"gzip"`
}

// Query 查询配置
type Query struct {
	MaxIterations     int     `json:"maxIterations"`
	FoldTolerance     float32 `json:"foldTolerance"`
	LinearHeuristic   bool    `json:"linearHeuristic"`
	SimplifyTolerance float32 `json:"simplifyTolerance"`
}

// Server HTTP 服务配置
type Server struct {
	Addr           string   `json:"addr"`
	AllowedOrigins []string `json:"allowedOrigins"`
	CacheSize      int      `json:"cacheSize"`
	MaxBodyBytes   int64    `json:"maxBodyBytes"` // 请求体上限，0 表示默认 32MB
}

// Store 持久化配置, Url 形如 sqlite://navmesh.db
type Store struct {
	Url string `json:"url"`
}

// DefaultConfig returns the values used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Logger: Logger{
			AppName: "navmesh",
			Level:   "INFO",
		},
		Build: Build{
			Precision: 4,
			Gzip:      true,
		},
		Query: Query{
			FoldTolerance:     1e-3,
			SimplifyTolerance: 1e-4,
		},
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			CacheSize:      16,
		},
		Store: Store{
			Url: "sqlite://navmesh.db",
		},
	}
}

// Parse reads an hjson document over the defaults
func Parse(data []byte) (*Config, error) {
	c := DefaultConfig()
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	if err := hjson.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config error: %w", err)
	}
	if _, err := parseLevel(c.Logger.Level); err != nil {
		return nil, err
	}
	return c, nil
}

// InitConfig loads filePath into the global config. An empty path or a
// missing file keeps the defaults.
func InitConfig(filePath string) error {
	c := DefaultConfig()
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case os.IsNotExist(err):
			logger.Warn("config file %v not found, using defaults", filePath)
		case err != nil:
			return fmt.Errorf("open config file error: %w", err)
		default:
			if c, err = Parse(data); err != nil {
				return err
			}
		}
	}

	mu.Lock()
	CONF = c
	mu.Unlock()
	return nil
}

// GetConfig returns the global config
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return CONF
}

// LoggerConfig converts the logger section for logger.InitLogger
func (c *Config) LoggerConfig() *logger.Config {
	level, _ := parseLevel(c.Logger.Level)
	return &logger.Config{
		AppName:      c.Logger.AppName,
		Level:        level,
		TrackLine:    c.Logger.TrackLine,
		EnableFile:   c.Logger.EnableFile,
		DisableColor: c.Logger.DisableColor,
		EnableJson:   c.Logger.EnableJson,
	}
}

// BuildSettings converts the build section
func (c *Config) BuildSettings() builder.Settings {
	settings := builder.DefaultSettings()
	if c.Build.Precision > 0 {
		settings.Precision = c.Build.Precision
	}
	settings.AllowNonManifold = c.Build.AllowNonManifold
	return settings
}

// PathPreferences converts the query section
func (c *Config) PathPreferences() *query.PathPreferences {
	prefs := query.DefaultPathPreferences()
	prefs.MaxIterations = c.Query.MaxIterations
	prefs.LinearHeuristic = c.Query.LinearHeuristic
	if c.Query.FoldTolerance > 0 {
		prefs.FoldTolerance = c.Query.FoldTolerance
	}
	prefs.SimplifyTolerance = c.Query.SimplifyTolerance
	return prefs
}

// logger.ParseLevel panics on unknown names
func parseLevel(level string) (l int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unknown log level: %v", level)
		}
	}()
	return logger.ParseLevel(level), nil
}
