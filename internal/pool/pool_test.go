package pool

import (
	"sync"
	"testing"
)

func TestPool_Basic(t *testing.T) {
	created := 0
	pool := NewPool(func() *int {
		created++
		x := 42
		return &x
	})

	obj := pool.Get()
	if *obj != 42 {
		t.Errorf("Expected 42, got %d", *obj)
	}
	if created != 1 {
		t.Errorf("Expected factory to run once, ran %d times", created)
	}
	pool.Put(obj)
	pool.Put(nil)
}

func TestPool_WithReset(t *testing.T) {
	resets := 0
	pool := NewPoolWithReset(
		func() *[]int {
			s := make([]int, 0, 10)
			return &s
		},
		func(s *[]int) {
			*s = (*s)[:0]
			resets++
		},
	)

	s1 := pool.Get()
	*s1 = append(*s1, 1, 2, 3)
	pool.Put(s1)

	s2 := pool.Get()
	if resets != 2 {
		t.Errorf("Expected reset on every Get, got %d calls", resets)
	}
	if len(*s2) != 0 {
		t.Errorf("Expected empty slice after reset, got length %d", len(*s2))
	}
}

func TestSlicePool_DropsOversized(t *testing.T) {
	p := NewSlicePool[string](2, 4)

	s := p.Get()
	if len(*s) != 0 || cap(*s) < 2 {
		t.Fatalf("unexpected slice len=%d cap=%d", len(*s), cap(*s))
	}
	*s = append(*s, "a", "b", "c", "d", "e", "f")
	p.Put(s) // dropped, cap > 4

	s2 := p.Get()
	if len(*s2) != 0 {
		t.Errorf("Expected empty slice, got %v", *s2)
	}
}

func TestStrings_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := GetStrings()
				if len(*s) != 0 {
					t.Errorf("goroutine %d: got non-empty slice %v", n, *s)
					return
				}
				*s = append(*s, "token")
				PutStrings(s)
			}
		}(i)
	}
	wg.Wait()
}
