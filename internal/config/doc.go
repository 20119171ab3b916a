// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for cortex.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CORTEX_*)
//   - ~/.cortex/config.toml
//   - ~/.cortex/config.json
//   - Built-in defaults
//
// The backend URL has no default. Load never fails because it is missing;
// Validate does, and the entry point refuses to start without it.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	client, err := api.New(api.Options{BaseURL: cfg.Backend.BaseURL})
package config
