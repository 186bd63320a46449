// Package config provides user settings for the MinuteAI site binaries.
//
// Settings live in a YAML file following OS conventions:
//   - Linux: $XDG_CONFIG_HOME/minute/config.yaml or $HOME/.config/minute/config.yaml
//   - macOS: $HOME/.config/minute/config.yaml
//   - Windows: %LOCALAPPDATA%\minute\config.yaml
//
// The file is optional. Missing fields keep their defaults and command-line
// flags override file values.
//
// # Example
//
//	version: 1
//	server:
//	  host: 0.0.0.0
//	  port: 8080
//	  content: /etc/minute/site.yaml
//	  advertise: true
//	typewriter:
//	  typing_interval: 100ms
//	  deleting_interval: 50ms
//	  pause: 1.5s
//	waitlist:
//	  server_url: http://localhost:8080
//	  submit_delay: 1.5s
//	  max_retries: 3
//
// # Usage
//
//	settings, err := config.LoadSettings()
//	if err != nil {
//	    return err
//	}
//	srv := server.New(&server.Config{Host: settings.Server.Host, ...})
package config
