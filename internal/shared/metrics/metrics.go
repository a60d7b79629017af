package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Counters tracks generation workflow outcomes. The zero value is ready to use
// and safe for concurrent use; services receive an instance so tests can
// assert on isolated counters.
type Counters struct {
	generateTotal   atomic.Uint64
	generateSuccess atomic.Uint64
	generateFail    atomic.Uint64
}

// IncGenerateTotal increments the per-invocation counter.
func (c *Counters) IncGenerateTotal() {
	c.generateTotal.Add(1)
}

// IncGenerateSuccess increments the success counter.
func (c *Counters) IncGenerateSuccess() {
	c.generateSuccess.Add(1)
}

// IncGenerateFail increments the failure counter.
func (c *Counters) IncGenerateFail() {
	c.generateFail.Add(1)
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() (total, success, fail uint64) {
	return c.generateTotal.Load(), c.generateSuccess.Load(), c.generateFail.Load()
}

// Default is the process-wide counter set exposed on /metrics.
var Default = &Counters{}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render(Default))
	}
}

// Render renders the given counters in Prometheus text format.
func Render(c *Counters) string {
	total, success, fail := c.Snapshot()
	var buf bytes.Buffer
	writeCounter(&buf, "generate_total", "Total generation workflows started", total)
	writeCounter(&buf, "generate_success", "Total generation workflows completed", success)
	writeCounter(&buf, "generate_fail", "Total generation workflows failed", fail)
	return buf.String()
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}
