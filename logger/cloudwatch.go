package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// CloudWatchAPI is the part of *cloudwatch.Client used for metrics and the
// dashboard.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
	PutDashboard(ctx context.Context, params *cloudwatch.PutDashboardInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutDashboardOutput, error)
}

var cwClient CloudWatchAPI
var cwNamespace = "LighterProbe"
var cwDashboard = "LighterProbe"

// DashboardMetric is one graphed metric. Dimensions must name exactly the
// dimension keys the metric is published with, component included.
type DashboardMetric struct {
	Name       string
	Dimensions []string
	Stat       string
	Title      string
}

// DashboardMetrics lists what the default dashboard graphs. LogMetric adds
// component plus one dimension per string field, so run_success is published
// with a host field and step_duration_ms with step and status fields.
var DashboardMetrics = []DashboardMetric{
	{Name: "run_success", Dimensions: []string{"component", "host"}, Stat: "Sum", Title: "Verification runs"},
	{Name: "step_duration_ms", Dimensions: []string{"component", "status", "step"}, Stat: "Average", Title: "Step latency"},
}

// InitCloudWatch initialises the CloudWatch client using the provided region and
// namespace. If region is empty it falls back to the AWS_REGION environment
// variable. When the client cannot be created the function logs a warning and
// metrics publishing remains disabled.
func InitCloudWatch(ctx context.Context, region, namespace, dashboard string) {
	log := GetLogger().WithComponent("cloudwatch")

	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.WithError(err).Warn("failed to load AWS configuration; CloudWatch metrics disabled")
		return
	}

	SetCloudWatchClient(cloudwatch.NewFromConfig(cfg), namespace, dashboard)

	log.WithFields(Fields{"region": region, "namespace": cwNamespace}).Info("initialized CloudWatch client")

	CreateDefaultDashboard(ctx)
}

// SetCloudWatchClient installs client for metric publishing. Empty namespace
// or dashboard keep the current names. A nil client disables publishing.
func SetCloudWatchClient(client CloudWatchAPI, namespace, dashboard string) {
	cwClient = client
	if namespace != "" {
		cwNamespace = namespace
	}
	if dashboard != "" {
		cwDashboard = dashboard
	}
}

// metricDimensions returns component plus every string field, sorted by name.
func metricDimensions(component string, fields Fields) []cwtypes.Dimension {
	dims := []cwtypes.Dimension{{Name: aws.String("component"), Value: aws.String(component)}}
	for k, v := range fields {
		if s, ok := v.(string); ok {
			dims = append(dims, cwtypes.Dimension{Name: aws.String(k), Value: aws.String(s)})
		}
	}
	sort.Slice(dims, func(i, j int) bool { return aws.ToString(dims[i].Name) < aws.ToString(dims[j].Name) })
	return dims
}

// publishMetrics sends the provided metric data to CloudWatch when the client
// has been initialised.
func publishMetrics(ctx context.Context, data []cwtypes.MetricDatum) {
	log := GetLogger().WithComponent("cloudwatch")
	if cwClient == nil {
		log.Debug("CloudWatch client not initialized; skipping metric publish")
		return
	}

	if len(data) == 0 {
		log.Debug("no metric data to publish")
		return
	}

	if _, err := cwClient.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(cwNamespace),
		MetricData: data,
	}); err != nil {
		log.WithError(err).Warn("failed to publish CloudWatch metrics")
		return
	}

	names := make([]string, 0, len(data))
	for _, datum := range data {
		if datum.MetricName != nil {
			names = append(names, *datum.MetricName)
		}
	}

	log.WithFields(Fields{"metrics": strings.Join(names, ",")}).Debug("published metrics to CloudWatch")
}

// searchExpression matches every series of m whatever the dimension values.
func searchExpression(namespace string, m DashboardMetric) string {
	dims := append([]string(nil), m.Dimensions...)
	sort.Strings(dims)
	schema := strings.Join(append([]string{namespace}, dims...), ",")
	return fmt.Sprintf(`SEARCH('{%s} MetricName="%s"', '%s', 300)`, schema, m.Name, m.Stat)
}

type dashboardWidget struct {
	Type       string           `json:"type"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Properties widgetProperties `json:"properties"`
}

type widgetProperties struct {
	Metrics []interface{} `json:"metrics"`
	Period  int           `json:"period"`
	Stat    string        `json:"stat"`
	Region  string        `json:"region,omitempty"`
	Title   string        `json:"title"`
}

// dashboardBody renders one widget per DashboardMetrics entry. The first
// widget also graphs the dimensionless LogErrors total from LogSummary.
func dashboardBody(namespace string) (string, error) {
	widgets := make([]dashboardWidget, 0, len(DashboardMetrics))
	for i, m := range DashboardMetrics {
		metrics := []interface{}{
			map[string]string{"expression": searchExpression(namespace, m), "id": fmt.Sprintf("e%d", i+1), "label": m.Name},
		}
		if i == 0 {
			metrics = append(metrics, []string{namespace, "LogErrors"})
		}
		widgets = append(widgets, dashboardWidget{
			Type:   "metric",
			Width:  12,
			Height: 6,
			Properties: widgetProperties{
				Metrics: metrics,
				Period:  300,
				Stat:    m.Stat,
				Region:  os.Getenv("AWS_REGION"),
				Title:   m.Title,
			},
		})
	}

	body, err := json.Marshal(map[string]interface{}{"widgets": widgets})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// CreateDefaultDashboard puts a dashboard graphing run outcomes and step
// latency. Failures are logged but do not stop execution.
func CreateDefaultDashboard(ctx context.Context) {
	if cwClient == nil {
		return
	}
	log := GetLogger().WithComponent("cloudwatch")

	body, err := dashboardBody(cwNamespace)
	if err != nil {
		log.WithError(err).Warn("failed to render CloudWatch dashboard")
		return
	}

	if _, err := cwClient.PutDashboard(ctx, &cloudwatch.PutDashboardInput{
		DashboardName: aws.String(cwDashboard),
		DashboardBody: aws.String(body),
	}); err != nil {
		log.WithError(err).Warn("failed to create CloudWatch dashboard")
	}
}
