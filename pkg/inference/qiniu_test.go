package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQiniuInferencerDefaults(t *testing.T) {
	q := NewQiniuInferencer("key", "")
	assert.Equal(t, "gpt-oss-120b", q.model)
	assert.Zero(t, q.maxTokens)
}

func TestQiniuSetMaxTokens(t *testing.T) {
	q := NewQiniuInferencer("key", "custom-model")
	q.SetMaxTokens(4096)
	assert.Equal(t, int64(4096), q.maxTokens)
	assert.Equal(t, "custom-model", q.model)
}
