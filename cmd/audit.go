package cmd

import (
	"fmt"
	"time"

	"football-sync/core/audit"

	"github.com/spf13/cobra"
)

var (
	auditTable  string
	auditRecord uint
	auditJob    string
	auditFrom   string
	auditTo     string
	auditLimit  int
)

// auditCmd lists the change history written by sync jobs.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List the audit trail of storage mutations",
	Long: `List change records written by sync jobs, oldest first. Every create,
update and deactivation of a local entity has exactly one record here;
the trail is append-only and never pruned by this tool.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditTable, "table", "", "Filter by table name (e.g. teams)")
	auditCmd.Flags().UintVar(&auditRecord, "record", 0, "Filter by local record id")
	auditCmd.Flags().StringVar(&auditJob, "job", "", "Filter by the job id that wrote the change")
	auditCmd.Flags().StringVar(&auditFrom, "from", "", "Earliest timestamp (RFC3339 or YYYY-MM-DD)")
	auditCmd.Flags().StringVar(&auditTo, "to", "", "Latest timestamp (RFC3339 or YYYY-MM-DD)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum number of records to list")

	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	_, l, db, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	filter := audit.Filter{
		Table:    auditTable,
		RecordID: auditRecord,
		JobID:    auditJob,
		Limit:    auditLimit,
	}
	if filter.From, err = parseCLITime(auditFrom); err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	if filter.To, err = parseCLITime(auditTo); err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	changes, err := audit.List(db.WithContext(cmd.Context()), filter)
	if err != nil {
		return fmt.Errorf("failed to list audit trail: %w", err)
	}

	if len(changes) == 0 {
		fmt.Println("No matching change records.")
		return nil
	}
	for _, c := range changes {
		fmt.Printf("%s  %-10s  %s #%d  by %s\n",
			c.Timestamp.Format(time.RFC3339), c.UpdateType, c.Table, c.RecordID, c.UpdateBy)
	}
	fmt.Printf("\n%d change record(s)\n", len(changes))
	return nil
}

func parseCLITime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
