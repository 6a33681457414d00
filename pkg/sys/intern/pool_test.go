package intern

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPool_Get(t *testing.T) {
	p := New(4)
	raw := "author Ada\nauthor Ada\n"

	a := p.Get(raw[7:10])
	b := p.Get(raw[18:21])

	assert.Equal(t, "Ada", a)
	assert.Same(t, unsafe.StringData(a), unsafe.StringData(b), "repeats share one copy")
	assert.NotSame(t, unsafe.StringData(raw[7:10]), unsafe.StringData(a), "first copy is cloned")
	assert.Equal(t, 1, p.Len())

	assert.Empty(t, p.Get(""))
	assert.Equal(t, 1, p.Len())
}

func TestPool_Concurrent(t *testing.T) {
	p := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range []string{"a", "b", "c"} {
				p.Get(s)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, p.Len())
}
