package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/sitecheck",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Server: ServerConfig{
			URL: "http://localhost:8000/api",
		},
		Security: SecurityConfig{
			Method: "plaintext",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# sitecheck System Configuration
# Location: ~/.config/sitecheck/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the report index and user config are stored
data_directory = "~/.local/share/sitecheck"
`
}

func GenerateUserConfigTemplate() string {
	return `# sitecheck User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[server]
# Base URL of the audit backend API
url = "http://localhost:8000/api"

[security]
# How the backend account credentials are stored:
#   "plaintext" - credentials.toml in the data directory (0600)
#   "ssh_key"   - AES-GCM encrypted with a key derived from an SSH key
method = "plaintext"

# Required for the ssh_key method
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
