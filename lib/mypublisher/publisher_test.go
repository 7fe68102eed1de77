package mypublisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/dayp-uci/donationsite/lib/myevents"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/lib/myuuid"
)

type testEvent struct {
	SessionID string
	Amount    int64
}

func (e testEvent) GetEventTypeName() string {
	return "donation.test"
}

func (e testEvent) GetAggregateName() string {
	return e.SessionID
}

func TestEnveloper(t *testing.T) {
	ctrl := gomock.NewController(t)

	// given
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("env_123")

	// when
	envelope, err := newEnveloper(nower, uuider).do("donation", testEvent{SessionID: "cs_test_1", Amount: 1050})

	// then
	assert.NoError(t, err)
	assert.Equal(t, myevents.EventEnvelope{
		UID:           "env_123",
		CreatedAt:     mytime.ExampleTime,
		Topic:         "donation",
		AggregateUID:  "cs_test_1",
		EventTypeName: "donation.test",
		EventPayload:  `{"SessionID":"cs_test_1","Amount":1050}`,
	}, envelope)
	assert.Equal(t, "donation.donation.test.cs_test_1", envelope.String())
}

func TestLoggingPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)

	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("env_456")

	publisher, cleanup, err := New(context.TODO(), "", nower, uuider)
	assert.NoError(t, err)
	defer cleanup()

	err = publisher.Publish(context.TODO(), "donation", testEvent{SessionID: "cs_test_2"})
	assert.NoError(t, err)
}
