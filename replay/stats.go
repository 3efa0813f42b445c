package replay

import (
	"errors"
	"io"
	"sort"
	"sync"
)

// StatKey identifies one row of the packet-type distribution. Sub is only
// meaningful when HasSub is set (entity property/method packets with a
// readable sub-identifier).
type StatKey struct {
	Type   uint32
	Sub    uint32
	HasSub bool
}

// FileStats accumulates counts for a single replay. Not safe for concurrent
// use; one instance per decode task.
type FileStats struct {
	Counts  map[StatKey]uint64
	Packets uint64
	Errors  uint64
}

func NewFileStats() *FileStats {
	return &FileStats{Counts: make(map[StatKey]uint64)}
}

// Observe records one decoded packet.
func (s *FileStats) Observe(p *Packet) {
	key := StatKey{Type: p.Type}
	if sub, ok := p.MethodID(); ok {
		key.Sub = sub
		key.HasSub = true
	}
	s.Counts[key]++
	s.Packets++
}

// Collect walks an entire packet stream, counting packets and stopping at
// the first framing error, which is counted once. The stream cannot be
// resynchronized past a corrupt length field, so one error ends the file.
func (s *FileStats) Collect(stream *PacketStream) {
	for {
		p, err := stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.Errors++
			}
			return
		}
		s.Observe(p)
	}
}

// TypeStats aggregates FileStats across concurrently decoded replays. The
// mutex is held only for the merge, never during a decode.
type TypeStats struct {
	mu      sync.Mutex
	counts  map[StatKey]uint64
	packets uint64
	errors  uint64
	replays uint64
}

func NewTypeStats() *TypeStats {
	return &TypeStats{counts: make(map[StatKey]uint64)}
}

// Merge folds one file's counts into the aggregate.
func (t *TypeStats) Merge(fs *FileStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, n := range fs.Counts {
		t.counts[key] += n
	}
	t.packets += fs.Packets
	t.errors += fs.Errors
	t.replays++
}

// Totals returns the aggregate packet, error and replay counts.
func (t *TypeStats) Totals() (packets, errors, replays uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.packets, t.errors, t.replays
}

// TypeRow is one packet type's aggregate, with its sub-identifier breakdown
// sorted by count descending.
type TypeRow struct {
	Type  uint32
	Count uint64
	Subs  []SubRow
}

type SubRow struct {
	Sub   uint32
	Count uint64
}

// Rows returns the distribution grouped by packet type, sorted by total
// count descending.
func (t *TypeStats) Rows() []TypeRow {
	t.mu.Lock()
	defer t.mu.Unlock()

	byType := make(map[uint32]*TypeRow)
	for key, n := range t.counts {
		row, ok := byType[key.Type]
		if !ok {
			row = &TypeRow{Type: key.Type}
			byType[key.Type] = row
		}
		row.Count += n
		if key.HasSub {
			row.Subs = append(row.Subs, SubRow{Sub: key.Sub, Count: n})
		}
	}

	rows := make([]TypeRow, 0, len(byType))
	for _, row := range byType {
		sort.Slice(row.Subs, func(i, j int) bool { return row.Subs[i].Count > row.Subs[j].Count })
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}
