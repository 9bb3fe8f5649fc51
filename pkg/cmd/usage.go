package cmd

import (
	"fmt"
	"io"
)

// PrintUsage writes the CLI help text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `instancemon - Reports system metrics to Amazon CloudWatch

Collects memory, swap, disk space, CPU (and optionally GPU) utilization on
the local instance and sends the values as custom metrics under the
System/Linux namespace.

Usage: instancemon [options]

Metric selection:
  --mem-util            Reports memory utilization in percentages.
  --mem-used            Reports memory used.
  --mem-avail           Reports available memory.
  --swap-util           Reports swap utilization in percentages.
  --swap-used           Reports allocated swap space.
  --disk-path=PATH      Selects the disk by the path on which to report.
                        Can be repeated.
  --disk-space-util     Reports disk space utilization in percentages.
  --disk-space-used     Reports allocated disk space.
  --disk-space-avail    Reports available disk space.
  --cpu-util            Reports CPU utilization in percentages.
  --gpu-util            Reports NVIDIA GPU utilization in percentages.

Reporting options:
  --aggregated          Adds aggregated metrics for instance type, AMI id,
                        and fleet.
  --aggregated-only     Reports only aggregated metrics.
  --auto-scaling        Adds Auto Scaling group metrics.
  --auto-scaling-only   Reports only Auto Scaling group metrics.
  --mem-used-incl-cache-buff
                        Counts memory that is cached and in buffers as used.
  --memory-units=UNITS  Units for memory metrics (default Megabytes).
  --disk-space-units=UNITS
                        Units for disk space metrics (default Gigabytes).
  --cpu-sample-interval=SECONDS
                        CPU sampling interval (default 1.0).

    Supported UNITS are Bytes, Kilobytes, Megabytes, and Gigabytes.

Run modes:
  --verify              Checks configuration and prepares the remote call
                        without sending data.
  --output=FILE         With --verify, exports the prepared batch to FILE
                        (jsonl, csv, tsv, or parquet by extension).
  --from-cron           Runs quietly with a randomized submission delay.
  --verbose             Displays details of what the tool is doing.
  --version             Displays the version number.
  --help                Displays this message.

Examples

  A simple test run without posting data:

    instancemon --mem-util --verify --verbose

  A five-minute cron schedule reporting memory and disk space utilization:

    */5 * * * * instancemon --mem-util --disk-space-util --disk-path=/ --from-cron
`)
}
