// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for cortex.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   set <key> <value>   Set a value in the config file
//   reset               Write the default configuration
//   path                Show configuration file path
//
// Examples:
//   cortex config
//   cortex config set backend.base_url http://localhost:8000
//   cortex config set backend.poll_interval_ms 1000
//   cortex config set ui.theme light
//   cortex config path --json
//
// show reports the effective values, environment overrides included; set
// and reset only touch the file.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/cortex-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args, env *Env) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args, env)
	case "path":
		return handleConfigPath(args, env)
	case "set":
		return handleConfigSet(args, env)
	case "reset":
		return handleConfigReset(args, env)
	default:
		return &ValidationError{
			Field:   "config subcommand",
			Value:   args.Subcommand,
			Reason:  "expected show, path, set or reset",
			Example: "cortex config set ui.theme light",
		}
	}
}

func handleConfigShow(args Args, env *Env) error {
	if args.JSON {
		values := make(map[string]interface{}, len(config.GetAllKeys()))
		for _, key := range config.GetAllKeys() {
			if v, err := env.Config.Get(key); err == nil {
				values[key] = v
			}
		}
		return NewJSONResponse("config", ConfigData{Path: env.ConfigPath, Values: values}).Print(env.out())
	}

	w := env.out()
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Config file"), ValueStyle.Render(env.ConfigPath))
	fmt.Fprintln(w, RenderSeparator(40))
	fmt.Fprint(w, env.Config.String())
	if err := env.Config.Validate(); err != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("[!]"), err)
	}
	return nil
}

func handleConfigPath(args Args, env *Env) error {
	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: env.ConfigPath}).Print(env.out())
	}
	fmt.Fprintln(env.out(), env.ConfigPath)
	return nil
}

func handleConfigSet(args Args, env *Env) error {
	key := strings.ToLower(strings.ReplaceAll(args.ConfigKey, "-", "_"))
	if key == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "cortex config set backend.base_url http://localhost:8000")
	}

	cfg, err := loadConfigFile(env.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, args.ConfigVal); err != nil {
		return &ValidationError{
			Field:   "config key",
			Value:   args.ConfigKey,
			Reason:  err.Error(),
			Example: "keys: " + strings.Join(config.GetAllKeys(), ", "),
		}
	}

	// Other problems in the file are reported by show, not here.
	var verrs config.ValidateErrors
	if errors.As(cfg.Validate(), &verrs) {
		for _, ve := range verrs {
			if ve.Field == key {
				return ve
			}
		}
	}

	if err := config.SaveTOML(cfg, env.ConfigPath); err != nil {
		return err
	}

	value, _ := cfg.Get(key)
	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: env.ConfigPath, Values: map[string]interface{}{key: value}}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s %s = %v\n", RenderStatus(true), key, value)
	return nil
}

func handleConfigReset(args Args, env *Env) error {
	confirmed, err := RequireConfirmation(env.Prompt, "reset the configuration to defaults", ConfirmationOptions{Yes: args.Yes, JSONMode: args.JSON})
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(env.errw(), "Cancelled.")
		return nil
	}

	if err := config.SaveTOML(config.Default(), env.ConfigPath); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: env.ConfigPath}).Print(env.out())
	}
	fmt.Fprintf(env.out(), "%s Configuration reset: %s\n", RenderStatus(true), env.ConfigPath)
	return nil
}

// loadConfigFile reads path without environment overrides so that saving
// does not persist them. A missing file yields the defaults.
func loadConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, config.ValidationError{Field: "config file", Message: err.Error(), Err: err}
	}
	return cfg, nil
}
