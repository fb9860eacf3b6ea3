package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Type    string `yaml:"type"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Name    string `yaml:"name"`
	User    string `yaml:"user"`
	Passwd  string `yaml:"passwd"`
	MaxConn int    `yaml:"max_conn"`
	Debug   bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// LabelsConfig holds defaults for the thermal label pipeline. Most of these
// can be overridden at runtime through system settings.
type LabelsConfig struct {
	CompanyName  string `yaml:"company_name"`
	BulkLabelCap int    `yaml:"bulk_label_cap"`
	PrintLogDays int    `yaml:"print_log_days"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Labels   LabelsConfig `yaml:"labels"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "nexpos",
		Location: "Europe/Rome",
		Workdir:  "/var/nexpos",
		Debug:    false,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Database: DBConfig{
		Type:    "postgres",
		Host:    "127.0.0.1",
		Port:    5432,
		Name:    "nexpos",
		User:    "postgres",
		Passwd:  "",
		MaxConn: 100,
		Debug:   false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/nexpos/nexpos.log",
	},
	Labels: LabelsConfig{
		CompanyName:  "NexRetail",
		BulkLabelCap: 10,
		PrintLogDays: 90,
	},
}

func setEnvValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		if ival, err := strconv.Atoi(evalue); err == nil {
			*val = ival
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing file is not an error; defaults are used instead.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("NEXPOS_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("NEXPOS_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("NEXPOS_WEB_PORT", &cfg.Web.Port)
	setEnvValue("NEXPOS_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("NEXPOS_DB_PORT", &cfg.Database.Port)
	setEnvValue("NEXPOS_DB_NAME", &cfg.Database.Name)
	setEnvValue("NEXPOS_DB_USER", &cfg.Database.User)
	setEnvValue("NEXPOS_DB_PWD", &cfg.Database.Passwd)
	setEnvBoolValue("NEXPOS_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("NEXPOS_LABELS_COMPANY", &cfg.Labels.CompanyName)

	if cfg.Labels.BulkLabelCap <= 0 {
		cfg.Labels.BulkLabelCap = DefaultAppConfig.Labels.BulkLabelCap
	}
	if cfg.Labels.PrintLogDays <= 0 {
		cfg.Labels.PrintLogDays = DefaultAppConfig.Labels.PrintLogDays
	}

	_ = os.MkdirAll(cfg.System.Workdir, 0o755)
	_ = os.MkdirAll(filepath.Join(cfg.System.Workdir, "data"), 0o755)
	return cfg
}
