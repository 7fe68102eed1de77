package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
	grpcCodes "google.golang.org/grpc/codes"
	grpcStatus "google.golang.org/grpc/status"

	"github.com/dayp-uci/donationsite/lib/myevents"
	"github.com/dayp-uci/donationsite/lib/mylog"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/lib/myuuid"
)

type gcloudPublisher struct {
	mutex     sync.Mutex
	client    *pubsub.Client
	topics    map[string]*pubsub.Topic
	pending   sync.WaitGroup
	enveloper enveloper
	logger    mylog.Logger
}

func newGcloudPublisher(c context.Context, projectID string, nower mytime.Nower, uuider myuuid.UUIDer, opts ...option.ClientOption) (*gcloudPublisher, func(), error) {
	client, err := pubsub.NewClient(c, projectID, opts...)
	if err != nil {
		return nil, func() {}, fmt.Errorf("error creating pubsub-client: %s", err)
	}

	p := &gcloudPublisher{
		client:    client,
		topics:    map[string]*pubsub.Topic{},
		enveloper: newEnveloper(nower, uuider),
		logger:    mylog.New("publisher"),
	}
	return p, p.close, nil
}

// Publish hands the event to the pubsub batcher and returns without waiting
// for the server to acknowledge it; the outcome is logged.
func (p *gcloudPublisher) Publish(c context.Context, topicName string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topicName, event)
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("error marshalling envelope %s: %s", envelope.UID, err)
	}

	topic, err := p.getTopic(c, topicName)
	if err != nil {
		return err
	}

	// Delivery outlives the request that triggered it.
	c = context.WithoutCancel(c)

	result := topic.Publish(c, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"eventTypeName": envelope.EventTypeName,
		},
	})

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()

		messageID, err := result.Get(c)
		if err != nil {
			p.logger.Log(c, envelope.AggregateUID, mylog.SeverityError, "Error publishing event %s on topic %s: %s", envelope, topicName, err)
			return
		}
		p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Published event %s as message %s", envelope, messageID)
	}()

	return nil
}

// getTopic does not hold the lock while talking to the server.
func (p *gcloudPublisher) getTopic(c context.Context, topicName string) (*pubsub.Topic, error) {
	p.mutex.Lock()
	topic, found := p.topics[topicName]
	p.mutex.Unlock()
	if found {
		return topic, nil
	}

	topic = p.client.Topic(topicName)
	exists, err := topic.Exists(c)
	if err != nil {
		return nil, fmt.Errorf("error checking if topic %s exists: %s", topicName, err)
	}

	if !exists {
		_, err = p.client.CreateTopic(c, topicName)
		if err != nil {
			rsp, ok := grpcStatus.FromError(err)
			if !ok || rsp.Code() != grpcCodes.AlreadyExists {
				return nil, fmt.Errorf("error creating topic %s: %s", topicName, err)
			}
			// created concurrently by another instance
		}
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	existing, found := p.topics[topicName]
	if found {
		// another request won the race
		topic.Stop()
		return existing, nil
	}
	p.topics[topicName] = topic

	return topic, nil
}

func (p *gcloudPublisher) close() {
	p.pending.Wait()

	p.mutex.Lock()
	for _, topic := range p.topics {
		topic.Stop()
	}
	p.mutex.Unlock()

	p.client.Close()
}
