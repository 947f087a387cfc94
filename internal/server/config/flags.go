package config

import (
	"flag"
	"os"
	"time"

	"tiredepot/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-m string   SMTP host
//	-p int      SMTP port
//	-u string   SMTP username
//	-w string   SMTP password
//	-f string   reminder sender address
//	-n string   company name used in reminder emails
//	-r int      duration refresh interval, seconds
//	-s int      reminder scan interval, hours
//	-l int      reminder lead time, days
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-p", "-u", "-w", "-f", "-n", "-r", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "p", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUsername, "u", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "w", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.EmailFrom, "f", config.EmailFrom, "reminder sender address")
	fs.StringVar(&config.CompanyName, "n", config.CompanyName, "company name for reminder emails")

	durationRefreshSeconds := fs.Int("r", int(config.DurationRefreshInterval.Seconds()), "duration refresh interval (in seconds)")
	reminderScanHours := fs.Int("s", int(config.ReminderScanInterval.Hours()), "reminder scan interval (in hours)")

	fs.IntVar(&config.ReminderLeadDays, "l", config.ReminderLeadDays, "reminder lead time (in days)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DurationRefreshInterval = time.Duration(*durationRefreshSeconds) * time.Second
	config.ReminderScanInterval = time.Duration(*reminderScanHours) * time.Hour
}
