package collecting

const (
	procMeminfo = "/proc/meminfo"
	procStat    = "/proc/stat"

	bytesPerKibibyte = 1024
	dfBlockSize      = 1024

	fieldSeparatorColon = ":"
)
