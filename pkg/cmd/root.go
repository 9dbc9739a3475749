package cmd

import (
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "xmile",
	Short: "A parser and validator for the XMILE system dynamics format.",
	Long: `xmile reads an XMILE model, canonicalizes and resolves its identifiers,
checks dimensional shape, parses unit expressions, and reports every finding as a
structured, non-fatal diagnostic.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			printVersion()
		} else {
			cmd.Help() //nolint:errcheck
		}
	},
}

func printVersion() {
	log.Infoln("resolving build version")

	if Version != "" {
		log.Println("xmile " + Version)
		return
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		log.Println("xmile " + info.Main.Version)
		return
	}

	log.Println("xmile (unknown version)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("case-sensitive", false, "disable case folding when canonicalizing identifiers")
	rootCmd.PersistentFlags().Bool("strict-unknown-elements", false, "has no effect: unrecognized XMILE elements are dropped without a diagnostic")
	rootCmd.PersistentFlags().Bool("allow-builtin-shadowing", false, "permit user variables to shadow builtin functions")
	rootCmd.PersistentFlags().Uint("max-equation-depth", 256, "maximum equation nesting depth before ExpressionDepthExceeded")

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
