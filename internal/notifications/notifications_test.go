package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"popupzone/internal/approvals"
	"popupzone/internal/occupancies"
	"popupzone/internal/shared/utils/dates"
	"popupzone/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "error")
}

func sampleOccupancy() *occupancies.Occupancy {
	return &occupancies.Occupancy{
		ID:             uuid.New(),
		SellerID:       uuid.New(),
		ZoneCellID:     uuid.New(),
		Name:           "Summer market",
		StartDate:      dates.MustParse("2024-07-11"),
		EndDate:        dates.MustParse("2024-07-15"),
		ApprovalStatus: occupancies.StatusPending,
		CreatedAt:      time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewDecidedEvent(t *testing.T) {
	occ := sampleOccupancy()
	rec, err := occ.Transition(approvals.DecisionReject, uuid.New(), "too close to the exit", time.Now())
	require.NoError(t, err)

	event := NewDecidedEvent(occ, rec)

	assert.Equal(t, EventOccupancyRejected, event.Type)
	assert.Equal(t, "REJECT", event.Decision)
	assert.Equal(t, "too close to the exit", event.Reason)
	assert.Equal(t, "REJECTED", event.Status)
	assert.Equal(t, "2024-07-11", event.StartDate)
	require.NotNil(t, event.RecordID)
	assert.Equal(t, rec.ID, *event.RecordID)
	assert.Equal(t, occ.ZoneCellID.String(), event.PartitionKey())
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaPublisherWithProducer(producer, "placement-events", quietLogger())
	defer func() { require.NoError(t, publisher.Close()) }()

	occ := sampleOccupancy()
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got PlacementEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != EventOccupancyRequested || got.OccupancyID != occ.ID {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	require.NoError(t, publisher.Publish(context.Background(), NewRequestedEvent(occ)))
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaPublisherWithProducer(producer, "placement-events", quietLogger())
	defer func() { _ = publisher.Close() }()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := publisher.Publish(context.Background(), NewRequestedEvent(sampleOccupancy()))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

type recordingHandler struct {
	failures int
	calls    int
	seen     []EventType
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *PlacementEvent) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("handler unavailable")
	}
	h.seen = append(h.seen, event.Type)
	return nil
}

func message(t *testing.T, offset int64, event *PlacementEvent) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := event.ToJSON()
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "placement-events", Offset: offset, Value: payload}
}

func TestConsumerGroupHandler_ConsumeClaim(t *testing.T) {
	handler := &recordingHandler{failures: 1}
	h := NewConsumerGroupHandler(handler, 2, time.Millisecond, quietLogger())

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- message(t, 1, NewRequestedEvent(sampleOccupancy()))
	claim.messages <- &sarama.ConsumerMessage{Topic: "placement-events", Offset: 2, Value: []byte("not json")}
	claim.messages <- message(t, 3, NewRequestedEvent(sampleOccupancy()))
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	// the malformed message is left unmarked
	assert.Equal(t, []int64{1, 3}, session.marked)
	assert.Equal(t, []EventType{EventOccupancyRequested, EventOccupancyRequested}, handler.seen)
	assert.Equal(t, 3, handler.calls)
}

func TestConsumerGroupHandler_GivesUp(t *testing.T) {
	handler := &recordingHandler{failures: 10}
	h := NewConsumerGroupHandler(handler, 2, time.Millisecond, quietLogger())

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 1)}
	claim.messages <- message(t, 7, NewRequestedEvent(sampleOccupancy()))
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Empty(t, session.marked)
	assert.Equal(t, 3, handler.calls)
}

func TestLoggingHandler(t *testing.T) {
	h := NewLoggingHandler(quietLogger())
	assert.NoError(t, h.HandleEvent(context.Background(), NewRequestedEvent(sampleOccupancy())))
}
