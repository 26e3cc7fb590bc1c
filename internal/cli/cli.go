package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bplus "github.com/alihshawon/bplus-lang"
)

const version = "1.0.0"

var (
	langPackPath  string
	extensionsDir string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bplus [script]",
		Short: "B+ programming language",
		Long:  "B+ is a Bangla-keyword scripting language. Run a .bplus script, or start the interactive shell with no arguments.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runREPL(rt)
			}
			return runScript(rt, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&langPackPath, "langpack", "", "language pack TOML file to load")
	root.PersistentFlags().StringVar(&extensionsDir, "extensions", "", "extensions directory (default ~/.bplus/extensions)")

	root.AddCommand(&cobra.Command{
		Use:   "run <script>",
		Short: "Run a B+ script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			return runScript(rt, args[0])
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			return runREPL(rt)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("B+ %s\n", version)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "packs",
		Short: "List installed language packs",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := loadExtensions()
			if err != nil {
				return err
			}
			for _, name := range mgr.Packs() {
				fmt.Println(name)
			}
			return nil
		},
	})

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func defaultExtensionsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".bplus", "extensions")
	}
	return filepath.Join(home, ".bplus", "extensions")
}

func loadExtensions() (*bplus.ExtensionManager, error) {
	dir := extensionsDir
	if dir == "" {
		dir = defaultExtensionsDir()
	}
	mgr := bplus.NewExtensionManager(dir)
	if err := mgr.Initialize(); err != nil {
		return nil, err
	}
	return mgr, nil
}

// newRuntime wires a runtime with the extension directory's active pack,
// or the pack named by --langpack when given.
func newRuntime() (*bplus.Runtime, error) {
	rt := bplus.NewRuntime()

	if langPackPath != "" {
		pack, err := bplus.LoadLanguagePack(langPackPath)
		if err != nil {
			return nil, err
		}
		rt.UseLanguagePack(pack)
		return rt, nil
	}

	mgr, err := loadExtensions()
	if err != nil {
		// A broken extensions dir should not block plain script runs.
		return rt, nil
	}
	if pack := mgr.ActivePack(); pack != nil {
		rt.UseLanguagePack(pack)
	}
	return rt, nil
}

func runScript(rt *bplus.Runtime, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script pora jay ni: %w", err)
	}
	result, err := rt.RunSource(filepath.Base(path), string(src))
	if err != nil {
		return err
	}
	if errObj, ok := result.(*bplus.ErrorObject); ok {
		return fmt.Errorf("%s", errObj.Inspect())
	}
	// A script whose last statement is a bare expression prints its value.
	if _, isNull := result.(*bplus.Null); result != nil && !isNull {
		fmt.Println(result.Inspect())
	}
	return nil
}
