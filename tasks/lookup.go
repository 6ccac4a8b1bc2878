package tasks

import (
	"sort"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/pcg"

	"github.com/vanaluk/sharedptr/bench"
)

// Rough per-entry bookkeeping estimates, in bytes. These only exist to give
// the comparison a memory column; they are not measurements.
const (
	mapEntryOverhead    = 16 // bucket slot plus tophash share
	lruEntryOverhead    = 48 // list element plus bucket slot
	kvPairOverhead      = 0
	valueBytesPerEntry  = 16 // string header
	keyBytesPerEntry    = 8
	avgValuePayloadSize = 8 // "value_NNN"
)

// LookupResult holds the timings of one container in the comparison.
type LookupResult struct {
	Name        string
	Complexity  string
	InsertNs    int64
	LookupNs    int64
	EraseNs     int64
	MemoryBytes uint64
	OpsPerSec   float64
}

// LookupMap times insert, lookup and erase on the builtin map.
func LookupMap(elements, lookups int) LookupResult {
	rng := pcg.New(uint64(elements) ^ 0xda3e39cb94b95bdb)
	container := make(map[int]string, elements)

	var t bench.Timer
	t.Start()
	for i := 0; i < elements; i++ {
		container[i] = "value_" + strconv.Itoa(i)
	}
	insertNs := t.ElapsedNanoseconds()

	t.Start()
	for i := 0; i < lookups; i++ {
		key := int(rng.Uint32()) % elements
		_ = container[key]
	}
	lookupNs := t.ElapsedNanoseconds()

	t.Start()
	for i := 0; i < elements/10; i++ {
		delete(container, i*10)
	}
	eraseNs := t.ElapsedNanoseconds()

	return LookupResult{
		Name:        "map",
		Complexity:  "O(1) average",
		InsertNs:    insertNs,
		LookupNs:    lookupNs,
		EraseNs:     eraseNs,
		MemoryBytes: uint64(elements) * entryBytes(mapEntryOverhead),
		OpsPerSec:   bench.OpsPerSec(lookups, lookupNs),
	}
}

// LookupSortedSlice times insert, binary-search lookup and erase on a sorted
// key/value slice.
func LookupSortedSlice(elements, lookups int) LookupResult {
	type kv struct {
		key int
		val string
	}
	rng := pcg.New(uint64(elements) ^ 0xda3e39cb94b95bdb)
	container := make([]kv, 0, elements)

	var t bench.Timer
	t.Start()
	for i := 0; i < elements; i++ {
		// keys arrive in ascending order, so appending keeps it sorted
		container = append(container, kv{key: i, val: "value_" + strconv.Itoa(i)})
	}
	insertNs := t.ElapsedNanoseconds()

	t.Start()
	for i := 0; i < lookups; i++ {
		key := int(rng.Uint32()) % elements
		idx := sort.Search(len(container), func(j int) bool { return container[j].key >= key })
		if idx < len(container) && container[idx].key == key {
			_ = container[idx].val
		}
	}
	lookupNs := t.ElapsedNanoseconds()

	t.Start()
	for i := 0; i < elements/10; i++ {
		key := i * 10
		idx := sort.Search(len(container), func(j int) bool { return container[j].key >= key })
		if idx < len(container) && container[idx].key == key {
			container = append(container[:idx], container[idx+1:]...)
		}
	}
	eraseNs := t.ElapsedNanoseconds()

	return LookupResult{
		Name:        "sorted_slice",
		Complexity:  "O(log n) lookup",
		InsertNs:    insertNs,
		LookupNs:    lookupNs,
		EraseNs:     eraseNs,
		MemoryBytes: uint64(elements) * entryBytes(kvPairOverhead),
		OpsPerSec:   bench.OpsPerSec(lookups, lookupNs),
	}
}

// LookupLRU times insert, lookup and erase on an LRU cache sized to hold
// every element, so no entry is evicted during the run.
func LookupLRU(elements, lookups int) (LookupResult, error) {
	cache, err := lru.New[int, string](elements)
	if err != nil {
		return LookupResult{}, err
	}
	rng := pcg.New(uint64(elements) ^ 0xda3e39cb94b95bdb)

	var t bench.Timer
	t.Start()
	for i := 0; i < elements; i++ {
		cache.Add(i, "value_"+strconv.Itoa(i))
	}
	insertNs := t.ElapsedNanoseconds()

	t.Start()
	for i := 0; i < lookups; i++ {
		key := int(rng.Uint32()) % elements
		_, _ = cache.Get(key)
	}
	lookupNs := t.ElapsedNanoseconds()

	t.Start()
	for i := 0; i < elements/10; i++ {
		cache.Remove(i * 10)
	}
	eraseNs := t.ElapsedNanoseconds()

	return LookupResult{
		Name:        "lru_cache",
		Complexity:  "O(1) average",
		InsertNs:    insertNs,
		LookupNs:    lookupNs,
		EraseNs:     eraseNs,
		MemoryBytes: uint64(elements) * entryBytes(lruEntryOverhead),
		OpsPerSec:   bench.OpsPerSec(lookups, lookupNs),
	}, nil
}

// CompareLookup runs all three containers and recommends the one with the
// fastest lookup phase.
func CompareLookup(elements, lookups int) ([]LookupResult, string, error) {
	lruResult, err := LookupLRU(elements, lookups)
	if err != nil {
		return nil, "", err
	}
	results := []LookupResult{
		LookupMap(elements, lookups),
		LookupSortedSlice(elements, lookups),
		lruResult,
	}

	fastest := results[0]
	for _, r := range results[1:] {
		if r.LookupNs < fastest.LookupNs {
			fastest = r
		}
	}

	var recommendation string
	switch fastest.Name {
	case "map":
		recommendation = "builtin map for best lookup performance"
	case "sorted_slice":
		recommendation = "sorted slice with binary search for this dataset size"
	default:
		recommendation = "lru cache when bounded memory matters more than raw lookups"
	}
	return results, recommendation, nil
}

func entryBytes(overhead uint64) uint64 {
	return keyBytesPerEntry + valueBytesPerEntry + avgValuePayloadSize + overhead
}
