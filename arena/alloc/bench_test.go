package alloc

import (
	"context"
	"math/rand"
	"testing"

	"github.com/joshuapare/arenakit/arena"
)

func BenchmarkMallocFree(b *testing.B) {
	a := newTestAllocator(b, 1<<20, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p, err := a.Malloc(64)
		if err != nil {
			b.Fatal(err)
		}
		a.Free(p)
	}
}

// BenchmarkFragmented measures first-fit scanning over a long free list.
func BenchmarkFragmented(b *testing.B) {
	a := newTestAllocator(b, 16<<20, nil)
	var ptrs []Ptr
	for range 4096 {
		p, err := a.Malloc(48)
		if err != nil {
			b.Fatal(err)
		}
		ptrs = append(ptrs, p)
	}
	for i := 0; i < len(ptrs); i += 2 {
		a.Free(ptrs[i])
	}

	b.ResetTimer()
	for range b.N {
		p, err := a.Malloc(256)
		if err != nil {
			b.Fatal(err)
		}
		a.Free(p)
	}
}

func BenchmarkRandomWorkload(b *testing.B) {
	for _, kind := range arena.Kinds() {
		b.Run(string(kind), func(b *testing.B) {
			r, err := arena.Open(context.Background(), kind, 32<<20)
			if err != nil {
				b.Fatal(err)
			}
			defer r.Close()
			a, err := New(r, nil)
			if err != nil {
				b.Fatal(err)
			}

			rng := rand.New(rand.NewSource(1))
			held := make([]Ptr, 0, 1024)
			b.ResetTimer()
			for range b.N {
				if len(held) < cap(held) && rng.Intn(3) != 0 {
					p, err := a.Malloc(uint64(1 + rng.Intn(1024)))
					if err != nil {
						b.Fatal(err)
					}
					held = append(held, p)
					continue
				}
				if len(held) == 0 {
					continue
				}
				i := rng.Intn(len(held))
				a.Free(held[i])
				held[i] = held[len(held)-1]
				held = held[:len(held)-1]
			}
		})
	}
}
