package memory_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trindadeeesx/nexus/internal/memory"
)

func TestRememberRecall(t *testing.T) {
	s := memory.NewStore(5)
	s.Remember("terminal", "oi")
	s.Remember("terminal", "quero bolo")
	s.Remember("http", "outro canal")

	assert.Equal(t, []string{"oi", "quero bolo"}, s.Recall("terminal"))
	assert.Equal(t, []string{"outro canal"}, s.Recall("http"))
	assert.Empty(t, s.Recall("desconhecido"))
}

func TestRememberBounded(t *testing.T) {
	s := memory.NewStore(3)
	for i := range 10 {
		s.Remember("terminal", fmt.Sprintf("msg-%d", i))
	}
	assert.Equal(t, []string{"msg-7", "msg-8", "msg-9"}, s.Recall("terminal"))
}

func TestRememberIgnoresEmpty(t *testing.T) {
	s := memory.NewStore(0)
	s.Remember("terminal", "")
	assert.Empty(t, s.Recall("terminal"))
}

func TestRecallReturnsCopy(t *testing.T) {
	s := memory.NewStore(0)
	s.Remember("terminal", "original")

	got := s.Recall("terminal")
	got[0] = "mutated"
	assert.Equal(t, []string{"original"}, s.Recall("terminal"))
}
