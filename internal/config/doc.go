// Package config handles configuration loading for huddle.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation and duration parsing.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	ai:
//	  api_token: "${CF_API_TOKEN}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "localhost:8080"      # public chat API and page
//	  internal_addr: "localhost:8081"  # memory facade; empty disables
//
// Database:
//
//	database:
//	  path: "~/.local/share/huddle/huddle.db"
//
// Inference:
//
//	ai:
//	  base_url: "https://api.cloudflare.com/client/v4"
//	  account_id: "${CF_ACCOUNT_ID}"
//	  api_token: "${CF_API_TOKEN}"
//	  model: "@cf/meta/llama-3.3-70b-instruct-fp8-fast"
//	  timeout: "60s"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() requires server.http_addr, database.path, ai.account_id, and
// ai.api_token.
package config
