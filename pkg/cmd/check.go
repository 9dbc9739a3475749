package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xmile-tools/go-xmile/pkg/source"
	"github.com/xmile-tools/go-xmile/pkg/util"
	"github.com/xmile-tools/go-xmile/pkg/xmile"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] model_file(s)",
	Short: "validate one or more XMILE models, reporting every diagnostic found.",
	Long: `check runs the full canonicalization, resolution, dimension-shape, and
cross-reference pipeline over each given XMILE file and prints every
diagnostic it finds. Exits non-zero if any file produced an error-severity
diagnostic.`,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		if len(args) == 0 {
			log.Fatal("check requires at least one model file")
		}

		if GetFlag(cmd, "stats") {
			stats := util.NewPerfStats()
			defer stats.Log("check")
		}

		cfg := configFromFlags(cmd)
		jobs := make([]*checkJob, len(args))

		for i, path := range args {
			jobs[i] = &checkJob{id: uint(i), path: path, cfg: cfg}
		}

		if err := util.ParExec(jobs); err != nil {
			log.Error(err)
			os.Exit(1)
		}

		hadErrors := false

		for _, j := range jobs {
			if j.hadErrors {
				hadErrors = true
			}
		}

		if hadErrors {
			os.Exit(1)
		}
	},
}

// checkJob is one file's worth of checking, run as an independent batch of
// util.ParExec's worklist. Files never depend on one another, so every job
// has an empty Dependencies list; ParExec runs the jobs one after another.
type checkJob struct {
	id        uint
	path      string
	cfg       xmile.Config
	hadErrors bool
}

func (j *checkJob) Jobs() []uint         { return []uint{j.id} }
func (j *checkJob) Dependencies() []uint { return nil }

func (j *checkJob) Run() error {
	j.hadErrors = checkOne(j.path, j.cfg)
	return nil
}

func checkOne(path string, cfg xmile.Config) bool {
	contents, err := os.ReadFile(path)
	if err != nil {
		log.WithField("file", path).Error(err)
		return true
	}

	src := source.NewFile(path, contents)

	f, err := os.Open(path)
	if err != nil {
		log.WithField("file", path).Error(err)
		return true
	}
	defer f.Close()

	_, diags := xmile.Compile(f, path, cfg)

	hadErrors := false

	for _, d := range diags {
		if d.Severity == source.SeverityError {
			hadErrors = true
		}

		printDiagnostic(src, d)
	}

	if !hadErrors {
		log.WithField("file", path).Info("no errors found")
	}

	return hadErrors
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("stats", false, "log timing and memory statistics after checking")
}
