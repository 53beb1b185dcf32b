package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/oKV/cmd/util"
	"github.com/ValentinKolb/oKV/lib/store/registry"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var (
	// ReplCmd represents the interactive session command
	ReplCmd = &cobra.Command{
		Use:     "repl",
		Short:   "Start an interactive session against a store instance",
		Long:    "Creates a store with the configured engine options and drops into an interactive prompt. The store lives for the duration of the session.",
		RunE:    run,
		PreRunE: setupRepl,
	}

	reg    *registry.Registry
	handle registry.Handle
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)
}

// setupRepl creates the session store from the configured engine options
func setupRepl(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	factory, err := util.GetStoreFactory()
	if err != nil {
		return err
	}

	reg = registry.NewRegistry()
	handle = reg.Create(factory)
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	defer reg.Destroy(handle)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "okv> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("oKV interactive session - type 'help' for a list of commands")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		quit, err := dispatch(line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		if quit {
			break
		}
	}

	return nil
}
