package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(context.Background(), Action{Kind: ActionLike})
	assert.NoError(t, r.Ping(context.Background()))
	assert.NoError(t, r.Close())
}

func TestClickHouseRecorderUnreachable(t *testing.T) {
	_, err := NewClickHouseRecorder(ClickHouseOptions{Addr: "127.0.0.1:1", Database: "default", Username: "default"})
	assert.Error(t, err)
}
