package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zaesho/wot-dissect/replay"
)

// Shows how packet timestamps are distributed over the battle: per-second
// packet rate plus the per-type time span. Useful for spotting types that
// only appear during load-in or at battle end.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: timedist <battle.wotreplay>")
		os.Exit(1)
	}

	r, err := replay.ParseFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	perSecond := make(map[int]int)
	type span struct {
		count    int
		min, max float32
	}
	spans := make(map[uint32]*span)
	total := 0

	stream := r.Packets()
	for {
		p, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Printf("Frame error after %d packets: %v\n", total, err)
			break
		}
		total++
		perSecond[int(p.Time)]++

		s, ok := spans[p.Type]
		if !ok {
			s = &span{min: p.Time, max: p.Time}
			spans[p.Type] = s
		}
		s.count++
		if p.Time < s.min {
			s.min = p.Time
		}
		if p.Time > s.max {
			s.max = p.Time
		}
	}

	fmt.Printf("Total packets: %d\n\n", total)

	seconds := make([]int, 0, len(perSecond))
	for sec := range perSecond {
		seconds = append(seconds, sec)
	}
	sort.Ints(seconds)

	fmt.Println("=== Packets per second (first 30s) ===")
	for i, sec := range seconds {
		if i >= 30 {
			break
		}
		fmt.Printf("  %4ds: %6d\n", sec, perSecond[sec])
	}

	fmt.Println("\n=== Per-type time span ===")
	types := make([]uint32, 0, len(spans))
	for t := range spans {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return spans[types[i]].count > spans[types[j]].count })

	for _, t := range types {
		s := spans[t]
		rate := 0.0
		if s.max > s.min {
			rate = float64(s.count) / float64(s.max-s.min)
		}
		fmt.Printf("  0x%02X: %6d packets, %.1f-%.1fs (%.1f/sec)\n", t, s.count, s.min, s.max, rate)
	}
}
