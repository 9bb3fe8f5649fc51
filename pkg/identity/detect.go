package identity

import (
	"strings"

	"InstanceMon/pkg/probing"
)

const hypervisorUUIDFile = "/sys/hypervisor/uuid"

// IsEC2 detects the EC2 environment from the hypervisor UUID marker file.
// Resolved once at startup; the result selects the identity source for the
// rest of the invocation.
func IsEC2() bool {
	if !probing.Exists(hypervisorUUIDFile) {
		return false
	}
	v, err := probing.File(hypervisorUUIDFile)
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(v)), "ec2")
}
