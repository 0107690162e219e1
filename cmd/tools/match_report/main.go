package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/donor-concierge/internal/concierge"
	"github.com/david/donor-concierge/internal/db"
)

func main() {
	donorFlag := flag.String("donor", "", "Donor ID to report on")
	matchedOnly := flag.Bool("matched", false, "Only show matched opportunities")
	flag.Parse()

	donorID, err := uuid.Parse(*donorFlag)
	if err != nil {
		log.Fatal("Please provide a valid donor ID using -donor flag")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	svc := concierge.NewService(db.NewStore(pool))
	v, err := svc.Vision(ctx, donorID)
	if err != nil {
		log.Fatal(err)
	}
	report, err := svc.Matches(ctx, donorID)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Stage: %s | Pillars: %s | Geo: %s", v.Stage, strings.Join(v.Pillars, ", "), strings.Join(v.GeoFocus, ", "))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Key", "Title", "Matched", "Confidence", "Tier", "Reason"})
	for _, r := range report.Opportunities {
		if *matchedOnly && !r.Result.Matched {
			continue
		}
		t.AppendRow(table.Row{
			r.Opportunity.Key,
			r.Opportunity.Title,
			r.Result.Matched,
			r.Result.Confidence,
			r.Result.InfoTier,
			r.Result.Reason,
		})
	}
	t.AppendFooter(table.Row{"", "", report.Matched, "", "", ""})
	t.Render()
}
