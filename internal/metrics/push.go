package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the default registry to a Pushgateway under the given job
// name. The process is short-lived, so pushing at the end of a run is the
// only way its metrics reach Prometheus.
func Push(gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).
		Gatherer(prometheus.DefaultGatherer).
		Push(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
