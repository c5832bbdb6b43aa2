// Package config defines the settings confkeep stores for itself.
//
// The file is managed by pkg/serializer, so it is created with defaults on
// first run and rewritten with defaults if it is found corrupted.
//
// # Configuration Structure
//
//	display:
//	  color: true                         # colorize CLI output
//	  border: false                       # draw borders around tables
//	  time_format: "2006-01-02 15:04:05"  # Go layout for timestamps
//	profile:
//	  name: ""                            # display name
//	  language: en                        # preferred language
//
// Every key above is required. A file missing one of them, or carrying a
// null value, is treated as corrupted. An empty time_format or language is
// rejected by Validate with the same effect.
//
// # Basic Usage
//
//	s := config.NewSerializer("")           // ~/.confkeep/config.yaml
//	mgr := manager.New[*config.Config](s)
//	cfg := mgr.Config()
//	cfg.Display.Border = true
//	if err := mgr.Save(); err != nil {
//		// already logged; the in-memory config is still current
//	}
//
// The extension of the path picks the format: .toml and .json are supported
// next to the default YAML.
package config
