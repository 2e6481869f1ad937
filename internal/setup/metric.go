package setup

import (
	"context"

	"github.com/bornholm/dbmenu/internal/config"
	"github.com/bornholm/dbmenu/internal/metric"
)

var NewMetricsFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*metric.Metrics, error) {
	return metric.NewMetrics(), nil
})
