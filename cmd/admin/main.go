// Command admin is the staff CLI: list filed reports and move them through
// their status lifecycle. It talks straight to PostgreSQL; Redis is not
// needed for offline administration.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civicgo/backend/internal/config"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/storage"
	"civicgo/backend/internal/store"
)

var (
	typeFilter   string
	statusFilter string
	message      string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Municipal portal administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	viper.SetEnvPrefix("portal")
	viper.AutomaticEnv()
	viper.BindEnv("database_dsn", "DATABASE_DSN")
	viper.BindEnv("redis_addr", "REDIS_ADDR")

	list := &cobra.Command{
		Use:   "list",
		Short: "List filed complaints and permit requests",
		RunE:  runList,
	}
	list.Flags().StringVar(&typeFilter, "type", "all", "filter by kind: all, complaints, permits")
	list.Flags().StringVar(&statusFilter, "status", "all", "filter by status: all, submitted, in-progress, resolved")

	setStatus := &cobra.Command{
		Use:   "set-status <reference> <status>",
		Short: "Update a report's status and append a note to its trail",
		Args:  cobra.ExactArgs(2),
		RunE:  runSetStatus,
	}
	setStatus.Flags().StringVar(&message, "message", "", "note shown to the resident")

	root.AddCommand(list, setStatus)
	return root
}

// openStore loads the full report list from PostgreSQL. Redis is optional:
// without it, set-status still works but connected widgets are not notified.
func openStore(ctx context.Context) (*store.ReportStore, *storage.Service, error) {
	godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}

	dsn := viper.GetString("database_dsn")
	if dsn == "" {
		return nil, nil, fmt.Errorf("DATABASE_DSN is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	var rdb *redis.Client
	if addr := viper.GetString("redis_addr"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
	}

	storageSvc := storage.NewService(db, rdb)
	st := store.New(storageSvc, logger)
	st.Init(ctx)
	if err := st.LastError(); err != nil {
		return nil, nil, err
	}
	return st, storageSvc, nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}

	reports := st.Filtered(typeFilter, store.NormalizeStatus(statusFilter))
	if len(reports) == 0 {
		fmt.Println("No reports match.")
		return nil
	}

	for _, r := range reports {
		kind := "complaint"
		if r.IsPermit {
			kind = "permit"
		}
		fmt.Printf("%-22s %-10s %-12s %s\n", r.ID, kind, r.Status, r.Address)
		if r.Description != "" {
			fmt.Printf("  %s\n", r.Description)
		}
	}
	fmt.Printf("%d report(s)\n", len(reports))
	return nil
}

func runSetStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ref := strings.ToUpper(strings.TrimSpace(args[0]))
	status, err := canonicalStatus(args[1])
	if err != nil {
		return err
	}

	st, storageSvc, err := openStore(ctx)
	if err != nil {
		return err
	}

	note := message
	if note == "" {
		note = "Status updated to " + status
	}

	if !st.UpdateStatus(ctx, ref, status, note) {
		return fmt.Errorf("no report with reference %s", ref)
	}
	if err := st.LastError(); err != nil {
		return fmt.Errorf("status recorded but not persisted: %w", err)
	}

	// Let connected widgets refresh their complaint lists.
	update := models.ChatMessage{
		SenderID: "system",
		Type:     "report_update",
		Content:  note,
		ReportID: ref,
	}
	if err := storageSvc.PublishReportUpdate(update); err != nil {
		fmt.Fprintf(os.Stderr, "warning: update not published: %v\n", err)
	}

	fmt.Printf("%s -> %s\n", ref, status)
	return nil
}

// canonicalStatus maps CLI input onto the display statuses stored on reports.
func canonicalStatus(in string) (string, error) {
	switch store.NormalizeStatus(in) {
	case "submitted":
		return config.StatusSubmitted, nil
	case "in-progress":
		return config.StatusInProgress, nil
	case "resolved":
		return config.StatusResolved, nil
	default:
		return "", fmt.Errorf("unknown status %q (use submitted, in-progress or resolved)", in)
	}
}
