package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.temporal.io/sdk/client"
)

func TestLoadTemporalEnv(t *testing.T) {
	t.Setenv("TEMPORAL_HOST_PORT", "")
	t.Setenv("TEMPORAL_NAMESPACE", "")
	t.Setenv("TEMPORAL_TASK_QUEUE", "")

	cfg := LoadTemporalEnv()
	assert.Equal(t, client.DefaultHostPort, cfg.HostPort)
	assert.Equal(t, client.DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultTaskQueue, cfg.TaskQueue)

	t.Setenv("TEMPORAL_TASK_QUEUE", "grades")
	assert.Equal(t, "grades", LoadTemporalEnv().TaskQueue)
}
