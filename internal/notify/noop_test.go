package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxSteins36/OpenSeat/pkg/logger"
)

func TestNoOpNotifier_Send(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewNoOpNotifier(logger.NewWithWriter(&buf, "debug", "text"))

	err := n.Send(context.Background(), &Notification{
		Title:        "Seat Found for BUS106!",
		HighPriority: true,
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "notification discarded")
	assert.Contains(t, buf.String(), "Seat Found for BUS106!")
}
