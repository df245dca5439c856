package queue

import (
	"fmt"
	"testing"

	"github.com/cgma-lang/cgma/internal/test"
)

func TestComputeSize(t *testing.T) {
	for i := 0; i <= 33; i++ {
		t.Run(fmt.Sprintf("%d elements", i), func(t *testing.T) {
			size := computeSize(i)
			test.Assert(t, size >= minSize, "expecting at least %d, got %d", minSize, size)
			test.Assert(t, size&(size+1) == 0, "expecting 2^n - 1, got %b", size)
			test.Assert(t, size >= i, "expecting size >= %d, got %d", i, size)
			if size > minSize {
				test.Assert(t, (size>>1) < i, "expecting size/2 < %d, got size %d", i, size)
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	q := New[int]()
	test.ExpectBool(t, true, q.IsEmpty())
	test.ExpectInt(t, 0, q.Len())
	test.ExpectInt(t, minSize, q.size)
	_, f := q.Pop()
	test.ExpectBool(t, false, f)
}

func TestPrefilled(t *testing.T) {
	q := New(3, 1, 3, 2, 1)
	test.ExpectInt(t, 3, q.Len())
	for _, expected := range []int{3, 1, 2} {
		item, f := q.Pop()
		test.ExpectBool(t, true, f)
		test.ExpectInt(t, expected, item)
	}
	test.ExpectBool(t, true, q.IsEmpty())
}

func TestPushOnce(t *testing.T) {
	q := New("a")
	test.ExpectBool(t, false, q.Push("a"))
	test.ExpectBool(t, true, q.Push("b"))
	q.Pop()
	q.Pop()
	test.ExpectBool(t, false, q.Push("a"))
	test.ExpectBool(t, true, q.Seen("b"))
	test.ExpectBool(t, false, q.Seen("c"))
	test.ExpectBool(t, true, q.IsEmpty())
}

func TestGrow(t *testing.T) {
	q := New[int]()
	for i := 0; i <= minSize; i++ {
		q.Push(i)
	}
	newSize := (minSize << 1) + 1
	test.ExpectInt(t, newSize, q.size)

	for i := minSize + 1; i < newSize; i++ {
		q.Push(i)
		test.ExpectInt(t, newSize, q.size)
	}
	q.Push(newSize)
	test.ExpectInt(t, (newSize<<1)+1, q.size)
	test.ExpectInt(t, newSize+1, q.Len())
	for i := 0; i <= newSize; i++ {
		item, _ := q.Pop()
		test.ExpectInt(t, i, item)
	}
}

func TestWrapAround(t *testing.T) {
	q := New(0, 1)
	next := 2
	for round := 0; round < 20; round++ {
		item, _ := q.Pop()
		test.ExpectInt(t, round, item)
		q.Push(next)
		next++
		test.ExpectInt(t, 2, q.Len())
	}
	test.ExpectInt(t, minSize, q.size)
}
