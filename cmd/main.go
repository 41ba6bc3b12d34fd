package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/koskimas/schemagen/internal/cmd"
	"github.com/koskimas/schemagen/internal/config"
	"github.com/koskimas/schemagen/internal/logging"
	"go.uber.org/zap"
)

func main() {
	var s cmd.Settings

	flag.StringVar(&s.SchemaPath, "schema", "", "schema file to generate from; when omitted "+config.FileName+" is used")
	flag.StringVar(&s.OutputPath, "out", "", "output file")
	flag.StringVar(&s.BaseConfigPath, "base-config", "", "base configuration rendered as a constant instance")
	flag.BoolVar(&s.RequireBaseConfig, "require-base-config", false, "fail when the base configuration is missing (default file "+config.DefaultBaseConfig+")")
	flag.StringVar(&s.Target, "target", "", "output language: cpp or go (default cpp)")
	flag.StringVar(&s.Namespace, "namespace", "", "C++ namespace (default "+config.DefaultNamespace+")")
	flag.StringVar(&s.Package, "package", "", "Go package name (default: output directory name)")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	logger, err := logging.New(*verbose)
	if err != nil {
		log.Fatalf("failed to create logger: %s", err)
	}
	defer func() { _ = logger.Sync() }()

	wd, err := os.Getwd()
	if err != nil {
		logger.Fatal("failed to determine working directory", zap.Error(err))
	}

	s.WorkingDir = wd
	s.Logger = logger

	if err := cmd.Run(s); err != nil {
		_ = logger.Sync()
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
