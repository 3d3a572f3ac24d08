package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/raine/menu-translator/config"
	"github.com/raine/menu-translator/internal/storage"
)

func main() {
	var all bool
	var clearCache string

	flag.BoolVar(&all, "all", false, "Show all configuration values")
	flag.StringVar(&clearCache, "clear-cache", "", "Delete cached entries of a namespace (translations, forex, image_search)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: menu-config -all\n")
		fmt.Fprintf(os.Stderr, "       menu-config <key>\n")
		fmt.Fprintf(os.Stderr, "       menu-config -clear-cache <namespace>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	switch {
	case clearCache != "":
		store, err := storage.NewSQLiteStore(cfg.CacheDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening cache at %s: %v\n", cfg.CacheDBPath, err)
			os.Exit(1)
		}
		defer store.Close()

		n, err := store.ClearNamespace(clearCache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %d entries from %s\n", n, clearCache)

	case all:
		for _, v := range cfg.Values() {
			fmt.Printf("%s=%s\n", v.Key, v.Value)
		}

	case flag.NArg() > 0:
		value, ok := cfg.Lookup(flag.Arg(0))
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown config key %q\n", flag.Arg(0))
			os.Exit(1)
		}
		fmt.Println(value)

	default:
		fmt.Fprintln(os.Stderr, "Error: No config key specified. Use -help to see available options.")
		os.Exit(1)
	}
}
