package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cgt-buildtools/internal/app"
)

type verifyPullsOptions struct {
	PullFile string
	LinkLog  string
	ObjDir   string
}

func newVerifyPullsCommand() *cobra.Command {
	opts := verifyPullsOptions{}
	cmd := &cobra.Command{
		Use:   "verify-pulls",
		Short: "Verify a captured linker log against a linker pull file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerifyPulls(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.PullFile, "pulls", "", "Linker pull file (JSON)")
	cmd.Flags().StringVar(&opts.LinkLog, "log", "", "Captured linker output")
	cmd.Flags().StringVar(&opts.ObjDir, "obj-dir", "", "Directory the pulled-from paths are relative to (default: directory of the log)")
	_ = cmd.MarkFlagRequired("pulls")
	_ = cmd.MarkFlagRequired("log")
	return cmd
}

func runVerifyPulls(ctx context.Context, opts verifyPullsOptions) error {
	service := newAppService()
	result, err := service.VerifyPulls(ctx, app.VerifyPullsRequest{
		PullFile: opts.PullFile,
		LinkLog:  opts.LinkLog,
		ObjDir:   opts.ObjDir,
	})
	for _, hit := range result.Report.Hits {
		fmt.Println(hit)
	}
	for _, line := range result.Report.Errors {
		fmt.Println(line)
	}
	return err
}
