package proxy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &dto.DeactivationReport{
		ProxyID:       12,
		QuotaReturned: true,
		Upstream: []dto.UpstreamRevocation{
			{AccessID: "acc-1", Deleted: true, Attempts: 1},
			{AccessID: "acc-2", Deleted: false, Attempts: 3, Error: "iproxy: status 503"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Proxy 12 deactivated (quota returned: true)")
	assert.Contains(t, out, "acc-1")
	assert.Contains(t, out, "iproxy: status 503")
	assert.NotContains(t, out, "Upstream cleanup incomplete")
}

func TestPrintReport_UpstreamListFailed(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &dto.DeactivationReport{
		ProxyID:       3,
		UpstreamError: "list accesses: connection refused",
	})

	out := buf.String()
	assert.Contains(t, out, "quota returned: false")
	assert.Contains(t, out, "Upstream cleanup incomplete: list accesses: connection refused")
	assert.NotContains(t, out, "ACCESS")
}
