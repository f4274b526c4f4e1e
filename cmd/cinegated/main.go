package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vmunix/cinegate/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (searched for if empty)")
	initConfig := flag.Bool("init", false, "Write a default config file and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cinegated %s\n", version)
		os.Exit(0)
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		os.Exit(0)
	}

	if err := runServer(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
