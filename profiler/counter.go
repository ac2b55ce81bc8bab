// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package profiler

import "sync"

// CounterFormat selects how a Counter's value is rendered for
// display.
type CounterFormat int

const (
	CounterDefault CounterFormat = iota
	CounterBytes
	CounterPercent
)

// CounterToken identifies a registered Counter.
type CounterToken int

type counter struct {
	name   string
	value  int64
	limit  int64
	format CounterFormat
}

var counters struct {
	mu     sync.Mutex
	byName map[string]CounterToken
	list   []counter
}

func init() {
	counters.byName = make(map[string]CounterToken)
}

// GetCounterToken interns a named counter, creating it with value 0
// and no limit if this is the first call for name.
func GetCounterToken(name string) CounterToken {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	if tok, ok := counters.byName[name]; ok {
		return tok
	}
	if len(counters.list) >= MaxCounters {
		panic("profiler: too many counters")
	}
	counters.list = append(counters.list, counter{name: name})
	tok := CounterToken(len(counters.list) - 1)
	counters.byName[name] = tok
	return tok
}

// CounterAdd adds delta to the counter's current value.
func CounterAdd(tok CounterToken, delta int64) {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	if int(tok) < len(counters.list) {
		counters.list[tok].value += delta
	}
}

// CounterSet overwrites the counter's current value.
func CounterSet(tok CounterToken, value int64) {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	if int(tok) < len(counters.list) {
		counters.list[tok].value = value
	}
}

// CounterSetLimit sets the counter's display limit (e.g. a memory
// budget a byte counter is tracked against) and format.
func CounterSetLimit(tok CounterToken, limit int64, format CounterFormat) {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	if int(tok) < len(counters.list) {
		counters.list[tok].limit = limit
		counters.list[tok].format = format
	}
}

// CounterValue is a snapshot of one counter's current state.
type CounterValue struct {
	Name   string
	Value  int64
	Limit  int64
	Format CounterFormat
}

// CounterSnapshot returns the current state of every registered
// counter.
func CounterSnapshot() []CounterValue {
	counters.mu.Lock()
	defer counters.mu.Unlock()
	out := make([]CounterValue, len(counters.list))
	for i, c := range counters.list {
		out[i] = CounterValue{c.name, c.value, c.limit, c.format}
	}
	return out
}
