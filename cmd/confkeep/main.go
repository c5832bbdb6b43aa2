// Command confkeep inspects and edits confkeep's settings file.
//
// Usage:
//
//	confkeep show                   - Show every setting
//	confkeep get <key>              - Print one setting
//	confkeep set <key>=<value>...   - Change settings and save
//	confkeep reset                  - Overwrite the file with defaults
//	confkeep path                   - Print the settings file path
//	confkeep status                 - Load the file and report problems
//
// The file is created with defaults on first use and healed with defaults
// if it is found corrupted. Use --config to point at another file; .toml and
// .json extensions switch the format.
package main

import (
	"os"

	"github.com/lc/confkeep/internal/log"
)

func main() {
	defer log.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
