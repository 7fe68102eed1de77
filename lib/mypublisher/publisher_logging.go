package mypublisher

import (
	"context"

	"github.com/dayp-uci/donationsite/lib/myevents"
	"github.com/dayp-uci/donationsite/lib/mylog"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/lib/myuuid"
)

// loggingPublisher is used outside Google Cloud: events only end up in the log.
type loggingPublisher struct {
	enveloper enveloper
	logger    mylog.Logger
}

func newLoggingPublisher(nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *loggingPublisher {
	return &loggingPublisher{
		enveloper: newEnveloper(nower, uuider),
		logger:    logger,
	}
}

func (p *loggingPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return err
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Event %s (%s): %s", envelope, envelope.UID, envelope.EventPayload)

	return nil
}
