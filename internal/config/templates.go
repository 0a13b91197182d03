package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Groww Trader Configuration

[alerts]
# Path to the flat JSON alert store (defaults to <config dir>/alerts.json)
file_path = ""
# Path to the SQLite event journal (defaults to <config dir>/alerts.db)
journal_path = ""

[monitor]
# Polling interval while the market is open
open_interval = "3m"
# Polling interval during the pre-open session
preopen_interval = "5m"
# Polling interval while the market is closed
closed_interval = "1h"

[resolver]
# Minimum match score (0-100) for accepting a symbol search result
acceptance_floor = 50

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[notifications]
# Enable notifications
enabled = false
# Notification level: all, triggers_only, errors_only
level = "all"

[notifications.webhook]
enabled = false
url = ""

[notifications.telegram]
enabled = false
bot_token = ""
chat_id = ""

[notifications.email]
enabled = false
smtp_host = ""
smtp_port = 465
username = ""
password = ""
from = ""
to = ""
`

const credentialsTemplate = `# Groww Trader Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[groww]
api_key = ""
api_secret = ""
totp_secret = ""
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
