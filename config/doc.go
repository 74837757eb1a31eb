// Package config loads logging properties from files and the environment
// and keeps a service configured while the file changes.
//
// Files may be .properties, .yaml, .yml, .toml or .json; nested keys are
// flattened with dots, so the YAML
//
//	lh:
//	  console:
//	    level: debug
//
// yields lh.console.level=debug. Environment variables starting with LH_ or
// LOGGER_SERVICE_ override file values: LH_CONSOLE_LEVEL becomes
// lh.console.level. A .env file is loaded into the environment first.
//
// # Usage
//
//	p, err := config.LoadProperties(config.WithConfigFile("loghub.yaml"))
//	if err != nil {
//	    return err
//	}
//	if err := logger.Configure(p); err != nil {
//	    return err
//	}
//	go config.Watch(ctx, "loghub.yaml", logger.Default(), onError)
package config
