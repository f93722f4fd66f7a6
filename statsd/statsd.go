// Package statsd is a helper package that wraps some common statsd methods.
// It hides the datadog dependency so that the rest of the module only deals with tick and entity metrics.
package statsd

import (
	"strings"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const namespace = "ecs"

var (
	client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}
	// tags mirrors the client tags so they can be copied onto trace spans.
	tags []string
)

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitTickStat records how long stage took, starting at start.
func EmitTickStat(start time.Time, stage string) {
	duration := time.Since(start)
	err := Client().Timing("tick", duration, []string{"stage:" + stage}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit tick stat: %v", err)
	}
}

// EmitEntityCount records the size of the population a tick ran over.
func EmitEntityCount(n int) {
	err := Client().Gauge("entities", float64(n), nil, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit entity count: %v", err)
	}
}

// Init replaces the no-op client with one that sends to address.
func Init(address string, tagList []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace(namespace),
	}
	if len(tagList) > 0 {
		opts = append(opts, ddstatsd.WithTags(tagList))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return eris.Wrap(err, "failed to create statsd client")
	}
	client = newClient
	tags = append([]string(nil), tagList...)
	return nil
}

// TraceTags converts the tags given to Init into span tags.
func TraceTags() map[string]any {
	out := make(map[string]any, len(tags))
	for _, tag := range tags {
		key, value := tagToTraceTag(tag)
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// tagToTraceTag splits "key:value" on the first colon. A missing half leaves a nil value.
func tagToTraceTag(tag string) (string, any) {
	key, value, _ := strings.Cut(tag, ":")
	if key == "" {
		return value, nil
	}
	if value == "" {
		return key, nil
	}
	return key, value
}

// Reset swaps the current client back to a no-op one, closing the previous client.
func Reset() error {
	prev := client
	client = &ddstatsd.NoOpClient{}
	tags = nil
	if err := prev.Close(); err != nil {
		return eris.Wrap(err, "failed to close statsd client")
	}
	return nil
}
