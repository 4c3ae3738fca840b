package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	const n = 1000
	var visits [n]int32
	ForEach(n, 8, func(i int) {
		atomic.AddInt32(&visits[i], 1)
	})
	for i, v := range visits {
		require.Equal(t, int32(1), v, "index %d", i)
	}
}

func TestForEachLimitBounds(t *testing.T) {
	var inFlight, peak int32
	ForEach(100, 4, func(i int) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		atomic.AddInt32(&inFlight, -1)
	})
	assert.LessOrEqual(t, peak, int32(4))
}

func TestForEachZeroLength(t *testing.T) {
	called := false
	ForEach(0, 4, func(i int) { called = true })
	assert.False(t, called)
}

func TestForEachNonPositiveLimit(t *testing.T) {
	var count int32
	ForEach(10, 0, func(i int) { atomic.AddInt32(&count, 1) })
	assert.Equal(t, int32(10), count)
}

func TestChunksCoverRange(t *testing.T) {
	cases := []struct{ length, n int }{
		{10, 3}, {10, 10}, {10, 20}, {1, 4}, {100, 7},
	}
	for _, tc := range cases {
		chunks := Chunks(tc.length, tc.n)
		next := 0
		for _, ch := range chunks {
			assert.Equal(t, next, ch[0])
			assert.Greater(t, ch[1], ch[0])
			next = ch[1]
		}
		assert.Equal(t, tc.length, next, "length %d n %d", tc.length, tc.n)
	}
}

func TestChunksEmpty(t *testing.T) {
	assert.Nil(t, Chunks(0, 4))
}

func TestDefaultWorkers(t *testing.T) {
	assert.Greater(t, DefaultWorkers(), 0)
}

func TestCPUBrand(t *testing.T) {
	assert.NotEmpty(t, CPUBrand())
}
