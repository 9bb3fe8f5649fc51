package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"InstanceMon/pkg/probing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const autoScalingGroupTag = "aws:autoscaling:groupName"

// ErrNotEC2 reports an operation that needs the instance metadata service
// on a host that does not have one.
var ErrNotEC2 = errors.New("not an EC2 instance")

// Instance is the host identity resolved once per invocation.
type Instance struct {
	ID               string
	Type             string
	ImageID          string
	AutoScalingGroup string
}

// Options states which identity facts the invocation needs beyond the
// instance id.
type Options struct {
	NeedPlacement   bool
	NeedAutoScaling bool
}

// MetadataAPI is the slice of the IMDS client the resolver uses.
type MetadataAPI interface {
	GetMetadata(ctx context.Context, params *imds.GetMetadataInput, optFns ...func(*imds.Options)) (*imds.GetMetadataOutput, error)
}

// TagsAPI is the slice of the EC2 client used for the Auto Scaling lookup.
type TagsAPI interface {
	DescribeTags(ctx context.Context, params *ec2.DescribeTagsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error)
}

// Resolver resolves the host identity from either the instance metadata
// service or a local instance-id file. The source is chosen once at
// startup and injected here.
type Resolver struct {
	meta   MetadataAPI
	tags   TagsAPI
	idFile string
}

// NewEC2Resolver resolves identity through the metadata service. tags may
// be nil when no Auto Scaling lookup is requested.
func NewEC2Resolver(meta MetadataAPI, tags TagsAPI) *Resolver {
	return &Resolver{meta: meta, tags: tags}
}

// NewFileResolver resolves identity from a local instance-id file.
func NewFileResolver(path string) *Resolver {
	return &Resolver{idFile: path}
}

func (r *Resolver) Resolve(ctx context.Context, opts Options) (Instance, error) {
	if r.meta == nil {
		return r.resolveFromFile(opts)
	}

	var inst Instance
	var err error

	if inst.ID, err = r.metadataValue(ctx, "instance-id"); err != nil {
		return Instance{}, err
	}

	if opts.NeedPlacement {
		if inst.Type, err = r.metadataValue(ctx, "instance-type"); err != nil {
			return Instance{}, err
		}
		if inst.ImageID, err = r.metadataValue(ctx, "ami-id"); err != nil {
			return Instance{}, err
		}
	}

	if opts.NeedAutoScaling {
		if inst.AutoScalingGroup, err = r.autoScalingGroup(ctx, inst.ID); err != nil {
			return Instance{}, err
		}
	}

	return inst, nil
}

func (r *Resolver) resolveFromFile(opts Options) (Instance, error) {
	if opts.NeedPlacement || opts.NeedAutoScaling {
		return Instance{}, fmt.Errorf("%w: aggregated and Auto Scaling metrics require instance metadata", ErrNotEC2)
	}

	v, err := probing.File(r.idFile)
	if err != nil {
		return Instance{}, fmt.Errorf("instance id file: %w", err)
	}
	id := strings.TrimSpace(v)
	if id == "" {
		return Instance{}, fmt.Errorf("instance id file %s is empty", r.idFile)
	}
	return Instance{ID: id}, nil
}

func (r *Resolver) metadataValue(ctx context.Context, path string) (string, error) {
	out, err := r.meta.GetMetadata(ctx, &imds.GetMetadataInput{Path: path})
	if err != nil {
		return "", fmt.Errorf("instance metadata %s: %w", path, err)
	}
	defer out.Content.Close()

	data, err := io.ReadAll(out.Content)
	if err != nil {
		return "", fmt.Errorf("instance metadata %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *Resolver) autoScalingGroup(ctx context.Context, instanceID string) (string, error) {
	if r.tags == nil {
		return "", fmt.Errorf("no EC2 client for Auto Scaling group lookup")
	}

	out, err := r.tags.DescribeTags(ctx, &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("resource-id"), Values: []string{instanceID}},
			{Name: aws.String("key"), Values: []string{autoScalingGroupTag}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describe tags: %w", err)
	}
	if len(out.Tags) == 0 || out.Tags[0].Value == nil || *out.Tags[0].Value == "" {
		return "", fmt.Errorf("instance %s is not part of an Auto Scaling group", instanceID)
	}
	return *out.Tags[0].Value, nil
}
