package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/loanbook/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	known := make(map[string]bool)
	for _, c := range cmd.Commands {
		commander.Register(c.Cmd, c.Group)
		known[c.Cmd.Name()] = true
	}
	for _, c := range []subcommands.Command{commander.HelpCommand(), commander.FlagsCommand(), commander.CommandsCommand()} {
		commander.Register(c, "help")
		known[c.Name()] = true
	}

	// Install the shell completion before flag parsing: when the shell asks
	// for a completion, Complete answers and exits the process.
	completion().Complete("lcs")

	flag.Parse()

	// Unknown subcommands are dispatched to lcs-<name> binaries from PATH.
	if sub := flag.Arg(0); sub != "" && !known[sub] {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}

// completion derives the completion tree from the command registry, so a
// new subcommand is completable without touching main.
func completion() *complete.Command {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Cmd.Name(), flag.ContinueOnError)
		c.Cmd.SetFlags(fs)
		flags := make(map[string]complete.Predictor)
		fs.VisitAll(func(f *flag.Flag) {
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				flags[f.Name] = predict.Nothing
				return
			}
			flags[f.Name] = predict.Something
		})
		sub[c.Cmd.Name()] = &complete.Command{Flags: flags}
	}
	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"book":        predict.Files("*.jsonl"),
			"assumptions": predict.Files("*.yaml"),
		},
	}
}
