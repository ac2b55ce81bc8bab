// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

// LogEntry is a single packed ring-buffer record: a 3-bit entry
// type, a 13-bit timer index, and a 48-bit tick value, in that order
// from the most to the least significant bit.
type LogEntry uint64

// Entry type tags, stored in the top 3 bits of a LogEntry.
const (
	LogLeave EntryType = iota
	LogEnter
	LogMeta
	LogLabel
	LogGPUExtra
	LogLabelLiteral
)

// EntryType is the tag stored in a LogEntry's top 3 bits.
type EntryType uint64

const (
	logBeginMask uint64 = 0xe000000000000000
	logIndexMask uint64 = 0x1fff000000000000
	logTickMask  uint64 = 0x0000ffffffffffff

	logBeginShift = 61
	logIndexShift = 48
)

// MakeLogEntry packs typ, index and tick into a LogEntry. index is
// truncated to 13 bits and tick to 48 bits, matching the ring's wire
// format.
func MakeLogEntry(typ EntryType, index int, tick uint64) LogEntry {
	e := (uint64(typ) << logBeginShift) & logBeginMask
	e |= (uint64(index) << logIndexShift) & logIndexMask
	e |= tick & logTickMask
	return LogEntry(e)
}

// Type returns the entry's type tag.
func (e LogEntry) Type() EntryType {
	return EntryType((uint64(e) & logBeginMask) >> logBeginShift)
}

// Index returns the entry's timer index.
func (e LogEntry) Index() int {
	return int((uint64(e) & logIndexMask) >> logIndexShift)
}

// Tick returns the entry's 48-bit tick value.
func (e LogEntry) Tick() uint64 {
	return uint64(e) & logTickMask
}

// WithTick returns a copy of e with its tick field replaced. Used
// when a GPU log entry's placeholder query index is later
// substituted with the resolved timestamp tick.
func (e LogEntry) WithTick(tick uint64) LogEntry {
	return LogEntry((uint64(e) &^ logTickMask) | (tick & logTickMask))
}

// TickDifference computes leave-enter over the 48-bit tick domain,
// correctly handling a single wraparound.
func TickDifference(enter, leave uint64) uint64 {
	return (leave - enter) & logTickMask
}
