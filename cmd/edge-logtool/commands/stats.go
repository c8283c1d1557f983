package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Units             map[uint8]*UnitStats
	Errors            int
	Retries           int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// UnitStats holds statistics for a single Modbus unit.
type UnitStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	Transactions int
	Failures     int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Units:             make(map[uint8]*UnitStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		stats.EventsByDirection[event.Direction]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.UnitID != 0 {
			u, ok := stats.Units[event.UnitID]
			if !ok {
				u = &UnitStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
				stats.Units[event.UnitID] = u
			}
			u.Events++
			if event.Timestamp.After(u.LastSeen) {
				u.LastSeen = event.Timestamp
			}
			if event.Transaction != nil {
				u.Transactions++
				if !event.Transaction.Success {
					u.Failures++
				}
				if event.Transaction.Retried {
					stats.Retries++
				}
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Edge Supervisor Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerArbiter, log.LayerDiscovery, log.LayerPoller, log.LayerAlert, log.LayerCommand} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryFrame, log.CategoryTransaction, log.CategoryState, log.CategoryDiscovery, log.CategoryAlert, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Units: %d\n", len(stats.Units))
	if len(stats.Units) > 0 {
		type unitInfo struct {
			id    uint8
			stats *UnitStats
		}
		units := make([]unitInfo, 0, len(stats.Units))
		for id, us := range stats.Units {
			units = append(units, unitInfo{id, us})
		}
		sort.Slice(units, func(i, j int) bool { return units[i].id < units[j].id })

		fmt.Fprintln(w)
		for _, u := range units {
			duration := u.stats.LastSeen.Sub(u.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [unit %d] %d events, %d transactions (%d failed), span %s\n",
				u.id, u.stats.Events, u.stats.Transactions, u.stats.Failures, duration)
		}
	}

	if stats.Retries > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Retried transactions: %d\n", stats.Retries)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
