package codec

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestStructPool_GetPut(t *testing.T) {
	t.Parallel()

	s := GetStruct()
	assert.NotNil(t, s)

	s.Fields = map[string]*structpb.Value{"type": structpb.NewStringValue("x")}
	PutStruct(s)

	s2 := GetStruct()
	assert.Empty(t, s2.GetFields())
}

func TestPools_PutNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		PutStruct(nil)
		PutBuffer(nil)
	})
}

func TestBufferPool_Reset(t *testing.T) {
	t.Parallel()

	buf := GetBuffer()
	buf.WriteString("hello")
	PutBuffer(buf)

	buf2 := GetBuffer()
	assert.Equal(t, 0, buf2.Len())
	PutBuffer(buf2)
}

func TestBufferPool_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := GetBuffer()
			buf.WriteString("data")
			PutBuffer(buf)
		}()
	}
	wg.Wait()
}
