package cmd

import (
	"fmt"
	"time"

	"football-sync/feature/football"

	"github.com/spf13/cobra"
)

var jobsLimit int

// jobsCmd lists past synchronization runs.
var jobsCmd = &cobra.Command{
	Use:   "jobs [id]",
	Short: "List past sync jobs or show one job in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJobs,
}

func init() {
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "Maximum number of jobs to list")
	RootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	_, l, db, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	service := football.NewService(db, l)

	if len(args) == 1 {
		job, err := service.Job(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load job: %w", err)
		}
		if job == nil {
			return fmt.Errorf("no job with id %s", args[0])
		}

		fmt.Printf("Job %s\n", job.ID)
		fmt.Printf("  kinds:       %s\n", job.Kinds)
		fmt.Printf("  status:      %s\n", job.Status)
		fmt.Printf("  dry run:     %t\n", job.DryRun)
		fmt.Printf("  started:     %s\n", job.StartedAt.Format(time.RFC3339))
		if !job.EndedAt.IsZero() {
			fmt.Printf("  ended:       %s\n", job.EndedAt.Format(time.RFC3339))
		}
		fmt.Printf("  created:     %d\n", job.Created)
		fmt.Printf("  updated:     %d\n", job.Updated)
		fmt.Printf("  skipped:     %d\n", job.Skipped)
		fmt.Printf("  deactivated: %d\n", job.Deactivated)
		fmt.Printf("  failed:      %d\n", job.Failed)
		if job.Error != "" {
			fmt.Printf("  error:       %s\n", job.Error)
		}
		return nil
	}

	jobs, err := service.Jobs(cmd.Context(), jobsLimit)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Println("No sync jobs recorded.")
		return nil
	}

	for _, job := range jobs {
		fmt.Printf("%s  %-9s  %s  c:%d u:%d s:%d d:%d f:%d\n",
			job.StartedAt.Format(time.RFC3339), job.Status, job.ID,
			job.Created, job.Updated, job.Skipped, job.Deactivated, job.Failed)
	}
	return nil
}
