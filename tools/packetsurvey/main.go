package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zaesho/wot-dissect/replay"
)

type typeInfo struct {
	count    int
	minSize  int
	maxSize  int
	examples [][]byte // first payload bytes, up to 5 per type
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: packetsurvey <battle.wotreplay>")
		os.Exit(1)
	}

	r, err := replay.ParseFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	types := make(map[uint32]*typeInfo)
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

		info, ok := types[p.Type]
		if !ok {
			info = &typeInfo{minSize: len(p.Payload), maxSize: len(p.Payload)}
			types[p.Type] = info
		}
		info.count++
		if len(p.Payload) < info.minSize {
			info.minSize = len(p.Payload)
		}
		if len(p.Payload) > info.maxSize {
			info.maxSize = len(p.Payload)
		}
		if len(info.examples) < 5 {
			head := p.Payload
			if len(head) > 16 {
				head = head[:16]
			}
			info.examples = append(info.examples, head)
		}
	}

	fmt.Printf("Surveyed %d packets, %d distinct types\n\n", total, len(types))

	keys := make([]uint32, 0, len(types))
	for t := range types {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return types[keys[i]].count > types[keys[j]].count })

	for _, t := range keys {
		info := types[t]
		fmt.Printf("Type 0x%02X: %d packets, payload %d-%d bytes\n", t, info.count, info.minSize, info.maxSize)
		for _, ex := range info.examples {
			fmt.Printf("    %s\n", hex.EncodeToString(ex))
		}
		fmt.Println()
	}
}
