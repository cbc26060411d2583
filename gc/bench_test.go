package gc

import "testing"

func BenchmarkAdmit(b *testing.B) {
	h := New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		newTestNode(h, 16)
		if i%100000 == 99999 {
			h.Close()
		}
	}
}

func BenchmarkCollect_LiveChain(b *testing.B) {
	h := New()
	var tail Object
	for i := 0; i < 1000; i++ {
		tail = newTestNode(h, 16, tail)
	}
	h.AddRoot(&tail)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Collect()
	}
}

func BenchmarkCollect_AllGarbage(b *testing.B) {
	h := New()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 100; j++ {
			newTestNode(h, 16)
		}
		h.Collect()
	}
}

func BenchmarkScope_AddRelease(b *testing.B) {
	h := New()
	var tmp Object
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scope := h.Scope()
		scope.Add(&tmp)
		scope.Add(&tmp)
		scope.Release()
	}
}
