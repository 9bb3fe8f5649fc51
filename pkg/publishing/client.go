package publishing

import (
	"context"
	"fmt"

	"InstanceMon/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// maxDatumsPerCall is the PutMetricData per-request ceiling.
const maxDatumsPerCall = 1000

// API is the slice of the CloudWatch client the submission path uses.
type API interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Client submits an assembled batch to CloudWatch. No retry logic of its
// own; the SDK's default retryer is the only retry behavior.
type Client struct {
	api       API
	namespace string
}

func NewClient(api API, namespace string) *Client {
	return &Client{api: api, namespace: namespace}
}

// Publish submits the batch and returns the request id of the final call.
// An empty batch performs no network call and returns no id.
func (c *Client) Publish(ctx context.Context, b *metrics.Batch) (string, error) {
	data := b.Data()
	if len(data) == 0 {
		return "", nil
	}

	var requestID string
	for start := 0; start < len(data); start += maxDatumsPerCall {
		end := min(start+maxDatumsPerCall, len(data))

		out, err := c.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(c.namespace),
			MetricData: convertDatums(data[start:end]),
		})
		if err != nil {
			return "", fmt.Errorf("put metric data: %w", err)
		}
		if id, ok := awsmiddleware.GetRequestIDMetadata(out.ResultMetadata); ok {
			requestID = id
		}
	}
	return requestID, nil
}

func convertDatums(data []metrics.Datum) []types.MetricDatum {
	out := make([]types.MetricDatum, len(data))
	for i, d := range data {
		dims := make([]types.Dimension, len(d.Dimensions))
		for j, dim := range d.Dimensions {
			dims[j] = types.Dimension{
				Name:  aws.String(dim.Name),
				Value: aws.String(dim.Value),
			}
		}
		out[i] = types.MetricDatum{
			MetricName: aws.String(d.Name),
			Unit:       types.StandardUnit(d.Unit),
			Value:      aws.Float64(d.Value),
			Timestamp:  aws.Time(d.Timestamp),
			Dimensions: dims,
		}
	}
	return out
}
