package collecting

import (
	"reflect"
	"testing"

	"InstanceMon/pkg/utils"
)

func TestManagerSelection(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*utils.Config)
		want []string
	}{
		{
			"memory only",
			func(c *utils.Config) { c.MemUtil = true },
			[]string{"Memory"},
		},
		{
			"swap counts as memory",
			func(c *utils.Config) { c.SwapUsed = true },
			[]string{"Memory"},
		},
		{
			"all categories",
			func(c *utils.Config) {
				c.MemUtil = true
				c.DiskSpaceUtil = true
				c.DiskPaths = []string{"/"}
				c.CPUUtil = true
			},
			[]string{"Memory", "Disk", "CPU"},
		},
		{
			"cpu only",
			func(c *utils.Config) { c.CPUUtil = true },
			[]string{"CPU"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := utils.NewConfig()
			tc.mut(cfg)

			m := NewManager(cfg)
			defer m.Close()

			if got := m.CollectorNames(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("collectors = %v, want %v", got, tc.want)
			}
		})
	}
}
