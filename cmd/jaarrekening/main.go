// Command jaarrekening extracts, analyses and exports Belgian annual
// accounts from the command line.
//
//	jaarrekening extract 2022=acme-2022.csv 2023=acme-2023.csv
//	jaarrekening report 2022.csv 2023.csv
//	jaarrekening export -format xlsx -o acme.xlsx 2022.csv 2023.csv
//	jaarrekening ingest -company acme 2023.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/JonMunkholm/jaarrekening/internal/config"
	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/JonMunkholm/jaarrekening/internal/logging"
)

var (
	scaleFlag = flag.String("scale", "", "Monetary unit of the source amounts: units or thousands. Defaults to EXTRACT_SCALE.")
	codesFlag = flag.String("codes", "", "Accounting-code catalogue version. Defaults to EXTRACT_CODES_VERSION.")
	logLevel  = flag.String("log-level", "warn", "Log level: debug, info, warn or error.")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&extractCmd{}, "documents")
	commander.Register(&reportCmd{}, "documents")
	commander.Register(&exportCmd{}, "documents")
	commander.Register(&ingestCmd{}, "storage")

	flag.Parse()
	logging.Setup(*logLevel, "text")
	os.Exit(int(commander.Execute(context.Background())))
}

// loadConfig reads .env and the environment, then applies the global flags.
func loadConfig() (*config.Config, error) {
	if _, err := config.LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *scaleFlag != "" {
		cfg.Extract.Scale = *scaleFlag
	}
	if *codesFlag != "" {
		cfg.Extract.CodesVersion = *codesFlag
	}
	if _, err := extract.ParseScale(cfg.Extract.Scale); err != nil {
		return nil, err
	}
	if _, ok := extract.CodesByVersion(cfg.Extract.CodesVersion); !ok {
		return nil, fmt.Errorf("unknown codes version %q", cfg.Extract.CodesVersion)
	}
	return cfg, nil
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
