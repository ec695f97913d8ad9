// Package bench provides reproducible micro-benchmarks for the calyx core
// containers.  Run via:  go test ./bench -bench=. -benchmem
//
// The benchmarks use a single key/value shape so results are comparable
// across versions:
//   • Key   – string ("k%07d", cheap to regenerate, realistic hashing)
//   • Value – int
//
// We measure:
//   1. ArrayPushBack   – amortised growth
//   2. ArrayInsertHead – worst-case shifting
//   3. SListPushBack   – O(1) tail insertion
//   4. HashMapInsert   – insert with prime rehashing
//   5. HashMapLookup   – read-only workload (after warm-up)
//   6. DatumPushBack   – tag-dispatched append
//   7. SchedulerTick   – Update over parked blocking tasks
//
// NOTE: correctness tests live next to each package; this file is *only*
// for performance.
//
// © 2025 calyx authors. MIT License.

package bench

import (
	"fmt"
	"testing"

	"github.com/calyx-engine/calyx/containers"
	"github.com/calyx-engine/calyx/coroutine"
	"github.com/calyx-engine/calyx/datum"
)

const keys = 1 << 12

var ds = func() []string {
	arr := make([]string, keys)
	for i := range arr {
		arr[i] = fmt.Sprintf("k%07d", i)
	}
	return arr
}()

func BenchmarkArrayPushBack(b *testing.B) {
	b.ReportAllocs()
	a := containers.NewArray[int]()
	for i := 0; i < b.N; i++ {
		a.PushBack(i)
	}
}

func BenchmarkArrayInsertHead(b *testing.B) {
	b.ReportAllocs()
	a := containers.NewArrayCap[int](1 << 10)
	for i := 0; i < b.N; i++ {
		if a.Size() == 1<<10 {
			a.Clear()
		}
		_ = a.Insert(0, i)
	}
}

func BenchmarkSListPushBack(b *testing.B) {
	b.ReportAllocs()
	s := containers.NewSList[int]()
	for i := 0; i < b.N; i++ {
		s.PushBack(i)
	}
}

func BenchmarkHashMapInsert(b *testing.B) {
	b.ReportAllocs()
	m := containers.NewHashMap[string, int]()
	for i := 0; i < b.N; i++ {
		m.Emplace(ds[i&(keys-1)], i)
	}
}

func BenchmarkHashMapLookup(b *testing.B) {
	m := containers.NewHashMap[string, int]()
	for i, k := range ds {
		m.Emplace(k, i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.At(ds[i&(keys-1)])
	}
}

func BenchmarkDatumPushBack(b *testing.B) {
	b.ReportAllocs()
	d := datum.New()
	for i := 0; i < b.N; i++ {
		_ = d.PushBack(i)
	}
}

func BenchmarkSchedulerTick(b *testing.B) {
	s := coroutine.New()
	for i := 0; i < 64; i++ {
		s.StartNamed(fmt.Sprintf("task%d", i), func(y *coroutine.Yielder) error {
			for {
				y.Yield()
			}
		}, false)
	}
	if err := s.Update(); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Update(); err != nil {
			b.Fatal(err)
		}
	}
	b.StopTimer()
	s.StopAll()
	_ = s.Update()
}
