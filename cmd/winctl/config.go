package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winctl/internal/config"
)

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  winctl config validate [--path PATH]")
	fmt.Fprintln(os.Stderr, "  winctl config print [--path PATH] [--defaults]")
	fmt.Fprintln(os.Stderr, "  winctl config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(os.Stderr, "  winctl config path")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return exitUsage
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winctl/config.yaml)")

	switch args[0] {
	case "validate":
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsage
		}
		if _, _, err := loadConfig(*path); err != nil {
			if verrs := config.ValidationErrors(err); len(verrs) > 0 {
				for _, verr := range verrs {
					fmt.Fprintln(os.Stderr, verr)
				}
				return exitError
			}
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		fmt.Println("config: ok")
		return exitOK

	case "print":
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsage
		}
		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, file, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return exitError
			}
			if res.File == "" {
				fmt.Printf("# %s does not exist; showing defaults\n", file)
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		fmt.Print(string(data))
		return exitOK

	case "explain":
		if err := fs.Parse(args[1:]); err != nil {
			return exitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return exitUsage
		}
		queryPath := fs.Arg(0)
		res, _, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", config.FormatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return exitOK

	case "path":
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitError
		}
		fmt.Println(p)
		return exitOK

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		printConfigUsage()
		return exitUsage
	}
}
