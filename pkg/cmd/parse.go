package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xmile-tools/go-xmile/pkg/source"
	"github.com/xmile-tools/go-xmile/pkg/util"
	"github.com/xmile-tools/go-xmile/pkg/xmile"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] model_file",
	Short: "parse a single XMILE model and print a structural summary.",
	Long: `parse runs only schema binding (no identifier resolution or validation) and
prints the resulting document's shape: models, variable counts by kind, and
declared dimensions.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			log.Fatal("parse takes exactly one model file")
		}

		cfg := configFromFlags(cmd)
		path := args[0]

		contents, err := os.ReadFile(path)
		if err != nil {
			log.WithField("file", path).Fatal(err)
		}

		src := source.NewFile(path, contents)

		f, err := os.Open(path)
		if err != nil {
			log.WithField("file", path).Fatal(err)
		}
		defer f.Close()

		doc, diags := xmile.ParseDocument(f, path, cfg)

		for _, d := range diags {
			printDiagnostic(src, d)
		}

		if doc == nil {
			os.Exit(1)
		}

		fmt.Printf("document: %d model(s), %d top-level dimension(s), %d macro(s)\n",
			len(doc.Models), len(doc.Dimensions), len(doc.Macros))

		printModelSummaryTable(doc.Models)
	},
}

func printModelSummaryTable(models []*xmile.Model) {
	table := util.NewTablePrinter(6, uint(len(models)+1))
	table.SetRow(0, "model", "stock", "flow", "aux", "gf", "module")

	for i, m := range models {
		counts := map[string]int{}
		for _, v := range m.Variables {
			counts[string(v.Kind())]++
		}

		table.SetRow(uint(i+1),
			m.ModelName(),
			fmt.Sprint(counts["stock"]),
			fmt.Sprint(counts["flow"]),
			fmt.Sprint(counts["aux"]),
			fmt.Sprint(counts["gf"]),
			fmt.Sprint(counts["module"]))
	}

	table.Print()
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
