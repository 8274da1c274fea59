/*
Hashpw prints the bcrypt hash to put in EDITOR_PASSWORD_HASH.

Usage:

	hashpw --password <plain> [--cost 12]

Both flags can also be set through HASHPW_PASSWORD and HASHPW_COST.
*/
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf"

	"github.com/iliyamo/venue-directory/internal/utils"
)

type hashConfig struct {
	Password string `conf:"required,noprint,help:plain editor password"`
	Cost     int    `conf:"default:12,help:bcrypt cost (4-31)"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var cfg hashConfig
	if err := conf.Parse(args, "HASHPW", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("HASHPW", &cfg)
			if err != nil {
				return fmt.Errorf("generating usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	hash, err := utils.HashPassword(cfg.Password, cfg.Cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Println(hash)
	return nil
}
