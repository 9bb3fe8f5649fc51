package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"InstanceMon/pkg/collecting"
	"InstanceMon/pkg/exporting"
	"InstanceMon/pkg/identity"
	"InstanceMon/pkg/metrics"
	"InstanceMon/pkg/publishing"
	"InstanceMon/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"golang.org/x/sys/unix"
)

// maxCronJitter spreads cron-driven submissions to avoid synchronized
// bursts against the API.
const maxCronJitter = 20 * time.Second

// Report runs one collect-and-submit invocation: parse flags, validate,
// resolve identity, collect, then verify-print or submit.
func Report(args []string) error {
	fs := flag.NewFlagSet("instancemon", flag.ExitOnError)
	fs.Usage = func() { PrintUsage(fs.Output()) }

	cfg := utils.NewConfig()
	applyFlags := utils.GetFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyFlags()

	if cfg.ShowVersion {
		fmt.Printf("instancemon version %s\n", utils.Version)
		return nil
	}

	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Printf("Run %s on %s", cfg.RunID, cfg.Hostname)
	logKernelInfo()

	ctx := context.Background()
	onEC2 := identity.IsEC2()

	var awsCfg aws.Config
	if onEC2 || !cfg.Verify {
		var err error
		if awsCfg, err = loadAWSConfig(ctx); err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
	}

	var resolver *identity.Resolver
	if onEC2 {
		meta := imds.NewFromConfig(awsCfg)
		if awsCfg.Region == "" {
			if out, err := meta.GetRegion(ctx, &imds.GetRegionInput{}); err == nil {
				awsCfg.Region = out.Region
			}
		}
		var tags identity.TagsAPI
		if cfg.AutoScaling {
			tags = ec2.NewFromConfig(awsCfg)
		}
		resolver = identity.NewEC2Resolver(meta, tags)
	} else {
		resolver = identity.NewFileResolver(utils.DefaultInstanceIDFile)
	}

	inst, err := resolver.Resolve(ctx, identity.Options{
		NeedPlacement:   cfg.Aggregated,
		NeedAutoScaling: cfg.AutoScaling,
	})
	if err != nil {
		// A dry run must never fail on the identity lookup; submission must.
		if !cfg.Verify {
			return err
		}
		log.Printf("WARNING: identity unresolved in verify mode: %v", err)
		inst = identity.Instance{ID: "unknown", Type: "unknown", ImageID: "unknown", AutoScalingGroup: "unknown"}
	}
	log.Printf("Reporting for instance %s", inst.ID)

	batch := metrics.NewBatch(metrics.BatchOptions{
		InstanceID:       inst.ID,
		InstanceType:     inst.Type,
		ImageID:          inst.ImageID,
		AutoScalingGroup: inst.AutoScalingGroup,
		Aggregated:       cfg.Aggregated,
		AggregatedOnly:   cfg.AggregatedOnly,
		AutoScaling:      cfg.AutoScaling,
		AutoScalingOnly:  cfg.AutoScalingOnly,
	})

	manager := collecting.NewManager(cfg)
	defer manager.Close()
	if err := manager.Collect(ctx, batch); err != nil {
		return err
	}

	if cfg.Verify {
		return verify(cfg, batch)
	}

	if cfg.FromCron {
		jitter := rand.N(maxCronJitter)
		log.Printf("Sleeping %v before submission", jitter)
		time.Sleep(jitter)
	}

	client := publishing.NewClient(cloudwatch.NewFromConfig(awsCfg), utils.Namespace)
	requestID, err := client.Publish(ctx, batch)
	if err != nil {
		return err
	}

	if batch.Empty() {
		log.Printf("Nothing to submit")
		return nil
	}
	log.Printf("Submitted %d datums, request id %s", batch.Len(), requestID)
	if !cfg.FromCron {
		fmt.Printf("Successfully reported %d metrics. RequestId: %s\n", batch.Len(), requestID)
	}
	return nil
}

func verify(cfg *utils.Config, b *metrics.Batch) error {
	fmt.Printf("Verification completed successfully. %d metrics prepared, no data sent:\n", b.Len())
	for _, d := range b.Data() {
		fmt.Println("  " + d.String())
	}

	if cfg.OutputFile != "" {
		if err := exporting.SaveRecords(cfg.OutputFile, exporting.BatchRecords(b, cfg.RunID)); err != nil {
			return fmt.Errorf("export batch: %w", err)
		}
		fmt.Printf("Wrote batch to %s\n", cfg.OutputFile)
	}
	return nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	var optFns []func(*config.LoadOptions) error
	// AWS_CREDENTIAL_FILE overrides the shared credentials location.
	if path := os.Getenv("AWS_CREDENTIAL_FILE"); path != "" {
		optFns = append(optFns, config.WithSharedCredentialsFiles([]string{path}))
	}
	return config.LoadDefaultConfig(ctx, optFns...)
}

func logKernelInfo() {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return
	}

	toString := func(data any) string {
		var b []byte
		switch v := data.(type) {
		case [65]int8:
			for _, c := range v {
				b = append(b, byte(c))
			}
		case [65]uint8:
			b = v[:]
		}
		return unix.ByteSliceToString(b)
	}

	log.Printf("Kernel: %s %s %s",
		toString(uname.Sysname),
		toString(uname.Release),
		toString(uname.Machine))
}
