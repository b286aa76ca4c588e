package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

type WorkerStat struct {
	// The worker index.
	Id int

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for the assigned block.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Total render time for the entire frame.
	RenderTime time.Duration
}

// Build a tabular representation of the frame statistics.
func (st FrameStats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Worker", "Block height", "% of frame", "Block time"})
	for _, w := range st.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", w.Id),
			fmt.Sprintf("%d", w.BlockH),
			fmt.Sprintf("%3.1f %%", w.FramePercent),
			fmt.Sprintf("%s", w.RenderTime),
		})
	}
	table.SetFooter([]string{"Total", " ", " ", fmt.Sprintf("%s", st.RenderTime)})
	table.Render()
	return buf.String()
}
