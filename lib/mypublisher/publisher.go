package mypublisher

import (
	"context"

	"github.com/dayp-uci/donationsite/lib/mylog"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/lib/myuuid"
)

// New publishes to Google Cloud Pub/Sub when a project is given and only logs otherwise.
func New(c context.Context, projectID string, nower mytime.Nower, uuider myuuid.UUIDer) (Publisher, func(), error) {
	if projectID != "" {
		publisher, cleanup, err := newGcloudPublisher(c, projectID, nower, uuider)
		if err != nil {
			return nil, cleanup, err
		}
		return publisher, cleanup, nil
	}

	return newLoggingPublisher(nower, uuider, mylog.New("publisher")), func() {}, nil
}
