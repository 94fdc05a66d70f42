package logger

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type componentStat struct {
	warns  int64
	errors int64
}

// keyed by component name
var components sync.Map

func componentStats(component string) *componentStat {
	v, _ := components.LoadOrStore(component, &componentStat{})
	return v.(*componentStat)
}

func recordWarn(component string) {
	atomic.AddInt64(&componentStats(component).warns, 1)
}

func recordError(component string) {
	atomic.AddInt64(&componentStats(component).errors, 1)
}

// Counts returns the warn and error counts recorded for component.
func Counts(component string) (warns, errors int64) {
	v, ok := components.Load(component)
	if !ok {
		return 0, 0
	}
	cs := v.(*componentStat)
	return atomic.LoadInt64(&cs.warns), atomic.LoadInt64(&cs.errors)
}

// ResetCounts clears every per-component counter.
func ResetCounts() {
	components.Range(func(k, _ any) bool {
		components.Delete(k)
		return true
	})
}

// LogSummary writes one line with the warn/error counts of every component
// that logged through WithComponent, and publishes the totals.
func LogSummary(ctx context.Context, log *Log) {
	names := make([]string, 0)
	components.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)

	perComponent := map[string]map[string]int64{}
	var totalWarns, totalErrors int64
	for _, name := range names {
		warns, errs := Counts(name)
		perComponent[name] = map[string]int64{"warns": warns, "errors": errs}
		totalWarns += warns
		totalErrors += errs
	}

	log.WithComponent("report").WithFields(Fields{
		"components":   perComponent,
		"total_warns":  totalWarns,
		"total_errors": totalErrors,
	}).Info("run summary")

	publishMetrics(ctx, []cwtypes.MetricDatum{
		{MetricName: aws.String("LogWarns"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(totalWarns))},
		{MetricName: aws.String("LogErrors"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(totalErrors))},
	})
}
