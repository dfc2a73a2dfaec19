package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/tbraack/garagelog/internal/feed"
	"github.com/tbraack/garagelog/internal/timeline"
)

func main() {
	fs := ff.NewFlagSet("garagectl")
	var (
		serverURL = fs.StringLong("server", "http://localhost:8080", "garagelog server URL")
		vehicleID = fs.StringLong("vehicle", "", "Vehicle ID")
		authUser  = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass  = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		watch     = fs.BoolLong("watch", "Keep refreshing until interrupted")
		interval  = fs.DurationLong("interval", 5*time.Second, "Refresh interval in watch mode")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("GARAGECTL"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *vehicleID == "" {
		fmt.Fprintln(os.Stderr, "error: --vehicle is required")
		os.Exit(1)
	}

	client, err := feed.NewClient(*serverURL, *authUser, *authPass)
	if err != nil {
		slog.Error("Failed to create client", "error", err)
		os.Exit(1)
	}

	controller, err := feed.NewController(feed.Config{
		Client:    client,
		VehicleID: *vehicleID,
	})
	if err != nil {
		slog.Error("Failed to create feed", "error", err)
		os.Exit(1)
	}
	defer controller.Close()

	ctx := context.Background()
	if err := controller.Refresh(ctx); err != nil {
		slog.Error("Failed to load timeline", "error", err)
		os.Exit(1)
	}
	printTimeline(controller)

	if !*watch {
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := controller.Refresh(ctx); err != nil {
				slog.Warn("Refresh failed", "error", err)
				continue
			}
			printTimeline(controller)
		case <-sigChan:
			return
		}
	}
}

func printTimeline(controller *feed.Controller) {
	cards := controller.Cards()
	if len(cards) == 0 {
		fmt.Println("No events recorded yet.")
		return
	}

	for _, card := range cards {
		printCard(card)
	}

	processing := 0
	for _, img := range controller.Images() {
		if !img.ProcessingStatus.Terminal() {
			processing++
		}
	}
	if processing > 0 {
		fmt.Printf("%d photo(s) still processing...\n", processing)
	}
}

func printCard(card timeline.CardViewModel) {
	header := card.Title
	if card.Subtitle != "" {
		header += " | " + card.Subtitle
	}
	fmt.Println(header)

	if card.HeroMetric != "" {
		hero := "  " + card.HeroMetric
		if card.HeroNote != "" {
			hero += "  (" + card.HeroNote + ")"
		}
		fmt.Println(hero)
	}

	switch timeline.DecideLayout(card.DataItems, card.Layout) {
	case timeline.LayoutGrid:
		for _, row := range timeline.GridPlacement(card.DataItems) {
			line := "  " + itemText(*row[0])
			if row[1] != nil {
				line = fmt.Sprintf("  %-34s%s", itemText(*row[0]), itemText(*row[1]))
			}
			fmt.Println(line)
		}
	default:
		for _, item := range card.DataItems {
			fmt.Println("  " + itemText(item))
		}
	}

	if len(card.Badges) > 0 {
		labels := make([]string, 0, len(card.Badges))
		for _, badge := range card.Badges {
			labels = append(labels, fmt.Sprintf("[%s]", badge.Label))
		}
		fmt.Println("  " + strings.Join(labels, " "))
	}
	if card.AISummary != nil {
		fmt.Println("  " + card.AISummary.Text)
	}
	for _, warning := range card.Warnings {
		fmt.Println("  ! " + warning)
	}
	fmt.Println()
}

func itemText(item timeline.DataItem) string {
	text := item.Label + ": " + item.Value
	if item.Highlight {
		text += " *"
	}
	return text
}
