// wot-dissect — decode .wotreplay files into battle metadata and the raw
// packet stream exchanged between client and server.
//
// Modes:
//
//	wot-dissect -input battle.wotreplay -version wot_eu_v1_25_1_0          human-readable dump
//	wot-dissect -input replays/ -version wot_eu_v1_25_1_0 -json           one JSON line per replay
//	wot-dissect -input replays/ -version wot_eu_v1_25_1_0 -stats          aggregate packet-type statistics
//
// Per-file decode errors go to stderr and do not stop the batch.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zaesho/wot-dissect/replay"
)

const dumpPacketLimit = 20

func main() {
	input := flag.String("input", "", "Path to a .wotreplay file or a directory of them")
	version := flag.String("version", "", "Game version string used to pick identifier definitions, e.g. wot_eu_v1_25_1_0")
	defsDir := flag.String("defs", "", "Optional directory of definition tables overriding the built-in ones")
	jsonMode := flag.Bool("json", false, "Emit one JSON line per replay on stdout")
	statsMode := flag.Bool("stats", false, "Print aggregate packet-type statistics across all inputs")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := collectPaths(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("cannot enumerate input")
	}
	if len(paths) == 0 {
		log.Fatal().Str("input", *input).Msg("no .wotreplay files found")
	}

	defs := replay.Resolver{Dir: *defsDir}.Load(*version)
	if defs.Empty() {
		log.Warn().Str("version", *version).Msg("no definitions loaded, output will not be annotated")
	}

	switch {
	case *statsMode:
		runStats(paths, defs)
	case *jsonMode:
		runJSON(paths)
	default:
		runDump(paths, defs)
	}
}

// collectPaths expands a directory input into its .wotreplay files; a plain
// file path is taken as-is.
func collectPaths(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".wotreplay" {
			paths = append(paths, filepath.Join(input, e.Name()))
		}
	}
	return paths, nil
}

func runStats(paths []string, defs *replay.Definitions) {
	stats := replay.NewTypeStats()

	replay.DecodeEach(paths, 0, func(path string, r *replay.Replay, err error) {
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("decode failed")
			return
		}
		fs := replay.NewFileStats()
		fs.Collect(r.Packets())
		stats.Merge(fs)
	})

	packets, frameErrors, replays := stats.Totals()
	pterm.DefaultSection.Println("Message Type Statistics")
	pterm.Printf("Replays analyzed: %d\n", replays)
	pterm.Printf("Packets parsed:   %d\n", packets)
	pterm.Printf("Packet errors:    %d\n", frameErrors)
	pterm.Println()

	typeRows := stats.Rows()
	rows := pterm.TableData{{"Type", "Count", "Percent", "Name"}}
	for _, row := range typeRows {
		pct := 0.0
		if packets > 0 {
			pct = float64(row.Count) / float64(packets) * 100
		}
		rows = append(rows, []string{
			fmt.Sprintf("0x%02X", row.Type),
			fmt.Sprintf("%d", row.Count),
			fmt.Sprintf("%.2f%%", pct),
			defs.PacketTypeName(row.Type),
		})
		for _, sub := range row.Subs {
			spct := float64(sub.Count) / float64(row.Count) * 100
			rows = append(rows, []string{
				"", "", "",
				fmt.Sprintf("  sub 0x%02X: %d (%.1f%%)", sub.Sub, sub.Count, spct),
			})
		}
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		log.Error().Err(err).Msg("table render failed")
	}
	pterm.Printf("\nUnique message types: %d\n", len(typeRows))
}

func runJSON(paths []string) {
	var mu sync.Mutex
	enc := json.NewEncoder(os.Stdout)

	replay.DecodeEach(paths, 0, func(path string, r *replay.Replay, err error) {
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("decode failed")
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(r); err != nil {
			log.Error().Err(err).Str("path", path).Msg("encode failed")
		}
	})
}

func runDump(paths []string, defs *replay.Definitions) {
	var mu sync.Mutex

	replay.DecodeEach(paths, 0, func(path string, r *replay.Replay, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("decode failed")
			return
		}

		pterm.DefaultSection.Println(path)
		pterm.Printf("Magic:       0x%X\n", r.Magic)
		pterm.Printf("Blocks:      %d\n", r.BlockCount)
		pterm.Printf("Player:      %s\n", r.BattleConfig.PlayerName)
		pterm.Printf("Vehicle:     %s\n", r.BattleConfig.PlayerVehicle)
		pterm.Printf("Map:         %s (%s)\n", r.BattleConfig.MapName, r.BattleConfig.GameplayID)
		pterm.Printf("Version:     %s\n", r.BattleConfig.ClientVersionFromExe)
		pterm.Printf("Date:        %s\n", r.BattleConfig.DateTime)
		pterm.Printf("Results:     %s\n", presence(r.BattleResults != nil))
		pterm.Printf("Packet data: %d bytes\n", len(r.PacketData))
		pterm.Println()

		stream := r.Packets()
		for i := 0; i < dumpPacketLimit; i++ {
			p, err := stream.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				pterm.Printf("  [%d] error: %v\n", i, err)
				break
			}
			desc := defs.Describe(p)
			if desc != "" {
				desc = " (" + desc + ")"
			}
			pterm.Printf("  [%d] %8.3fs  type 0x%02X%s  %d bytes\n", i, p.Time, p.Type, desc, p.TotalLength)
		}
	})
}

func presence(present bool) string {
	if present {
		return "present"
	}
	return "missing"
}
