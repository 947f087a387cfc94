package config

import (
	"encoding/json"
	"os"

	"tiredepot/internal/flagx"
	"tiredepot/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "60s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	DatabaseDSN             string         `json:"database_dsn"`
	SMTPHost                string         `json:"smtp_host"`
	SMTPPort                int            `json:"smtp_port"`
	SMTPUsername            string         `json:"smtp_username"`
	SMTPPassword            string         `json:"smtp_password"`
	EmailFrom               string         `json:"email_from"`
	CompanyName             string         `json:"company_name"`
	DefaultActor            string         `json:"default_actor"`
	DurationRefreshInterval timex.Duration `json:"duration_refresh_interval"`
	ReminderScanInterval    timex.Duration `json:"reminder_scan_interval"`
	ReminderLeadDays        int            `json:"reminder_lead_days"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUsername = c.SMTPUsername
	config.SMTPPassword = c.SMTPPassword
	config.EmailFrom = c.EmailFrom
	config.CompanyName = c.CompanyName
	config.DefaultActor = c.DefaultActor
	config.DurationRefreshInterval = c.DurationRefreshInterval.Duration
	config.ReminderScanInterval = c.ReminderScanInterval.Duration
	config.ReminderLeadDays = c.ReminderLeadDays
}
