package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "casedesk.compliance.completed", Subject(TypeComplianceCompleted))
}

func TestMulti_Publish(t *testing.T) {
	var got []string
	ok := NewCallbackPublisher(func(_ context.Context, n *Notification) error {
		got = append(got, n.Type)
		return nil
	})
	failing := NewCallbackPublisher(func(context.Context, *Notification) error {
		return errors.New("sink down")
	})

	err := Multi{failing, nil, ok, NoOpPublisher{}}.Publish(context.Background(), &Notification{Type: TypeComplianceFailed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, []string{TypeComplianceFailed}, got)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, p.Publish(context.Background(), &Notification{
		Type:      TypeComplianceFailed,
		RequestID: "dd-1",
		Message:   "service unavailable",
	}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "dd-1", line["request_id"])
}

func runTestServer(t *testing.T) *commsserver.Server {
	t.Helper()
	ns, err := commsserver.NewServer(&commsserver.Options{Host: "127.0.0.1", Port: -1})
	require.NoError(t, err)
	go ns.Start()
	require.True(t, ns.ReadyForConnections(5*time.Second), "nats server not ready")
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestCommsPublisher_Publish(t *testing.T) {
	ns := runTestServer(t)

	nc, err := Connect(ns.ClientURL(), "casedesk-test")
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync(SubjectPrefix + ">")
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	p := NewCommsPublisher(nc)
	require.NoError(t, p.Publish(context.Background(), &Notification{
		Type:      TypeComplianceCompleted,
		TrackerID: "t1",
		RequestID: "dd-1",
		Message:   "Due diligence report ready",
	}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "casedesk.compliance.completed", msg.Subject)

	var n Notification
	require.NoError(t, json.Unmarshal(msg.Data, &n))
	assert.Equal(t, "dd-1", n.RequestID)
	assert.Equal(t, "t1", n.TrackerID)
}

func TestCommsPublisher_ClosedConnection(t *testing.T) {
	ns := runTestServer(t)

	nc, err := comms.Connect(ns.ClientURL())
	require.NoError(t, err)
	nc.Close()

	err = NewCommsPublisher(nc).Publish(context.Background(), &Notification{Type: TypeComplianceFailed})
	assert.ErrorIs(t, err, comms.ErrConnectionClosed)
}
