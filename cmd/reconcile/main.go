package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/reactions-backend/internal/app"
)

// One-shot reconciliation pass for operators: runs the same job body the
// scheduled workflow executes, then prints the report.
func main() {
	var asJSON bool
	flag.BoolVar(&asJSON, "json", false, "print the report as JSON")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	report, err := application.Services.Reconcile.Run(context.Background())
	if err != nil {
		fmt.Printf("reconcile: %v\n", err)
		os.Exit(1)
	}

	if asJSON {
		raw, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(raw))
		return
	}
	fmt.Printf("excluded categories: %d\n", report.ExcludedCategories)
	fmt.Printf("audit rows inserted: %d\n", report.AuditRowsInserted)
	fmt.Printf("users recounted:     %d\n", report.UsersRecounted)
	fmt.Printf("users failed:        %d\n", report.UsersFailed)
	fmt.Printf("history rows purged: %d\n", report.HistoryRowsPurged)
}
